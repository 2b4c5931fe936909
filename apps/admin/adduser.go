package main

import (
	"context"
	"time"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

// addUser updates or creates an admin account. This is how the first
// super admin gets bootstrapped before any API access exists.
func (cli *commandLine) addUser(name, email, pwd string, super bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Role = user.RoleAdmin
	if super {
		usr.Role = user.RoleSuperAdmin
	}
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
