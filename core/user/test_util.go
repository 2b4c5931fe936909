package user

import (
	"context"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
)

type serviceMock struct {
	service
}

func NewServiceMock(
	db core.DB,
	repo Repository,
	auditSvc audit.Service,
	mailSvc core.EmailService,
	cache core.ViewCache,
	protectedEmails ...string,
) Service {
	for i, email := range protectedEmails {
		protectedEmails[i] = core.CleanString(email, true /* lower */)
	}
	return &serviceMock{
		service: service{
			db:              db,
			repo:            repo,
			auditSvc:        auditSvc,
			mailSvc:         mailSvc,
			cache:           cache,
			protectedEmails: protectedEmails,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
