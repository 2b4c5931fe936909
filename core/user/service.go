package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
)

var (
	// errors
	ErrNotFound        = errors.New("user not found")
	ErrEmailExists     = errors.New("a user with this email already exists")
	ErrUnauthorized    = errors.New("user not authenticated")
	ErrBanned          = errors.New("account banned")
	ErrForbidden       = errors.New("permission denied")
	ErrCannotTouchSelf = errors.New("you cannot change your own role or ban state")
	ErrImmutableTarget = errors.New("this account is protected")
)

// Authorize checks that actor may perform an action requiring the given role.
// Pure decision function over the session snapshot; no side effects.
func Authorize(actor *User, required string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if actor.IsBanned {
		return ErrBanned
	}
	if RolePriority(actor.Role) < RolePriority(required) {
		return ErrForbidden
	}
	return nil
}

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		SetUserRole(ctx context.Context, id, role string, exec ...core.DBExecutor) (User, error)
		SetUserBanned(ctx context.Context, id string, banned bool, exec ...core.DBExecutor) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		CheckUniqueness(email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		Delete(ctx context.Context, actor User, ids ...string) error
		SetLastLogin(ctx context.Context, usr User) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error

		UpdateRole(ctx context.Context, actor User, targetID, newRole string) (User, error)
		ToggleBan(ctx context.Context, actor User, targetID string) (User, error)
		Ban(ctx context.Context, actor User, targetID string) (User, error)
		Unban(ctx context.Context, actor User, targetID string) (User, error)
	}

	service struct {
		db       core.DB
		repo     Repository
		auditSvc audit.Service
		mailSvc  core.EmailService
		cache    core.ViewCache

		// normalized emails of super admins that can never be demoted or banned
		protectedEmails []string
	}
)

var _ Service = (*service)(nil)

func NewService(
	db core.DB,
	repo Repository,
	auditSvc audit.Service,
	mailSvc core.EmailService,
	cache core.ViewCache,
	conf *core.Config,
) *service {
	protected := make([]string, 0, len(conf.ProtectedAdminEmails))
	for _, email := range conf.ProtectedAdminEmails {
		protected = append(protected, core.CleanString(email, true /* lower */))
	}
	return &service{
		db:              db,
		repo:            repo,
		auditSvc:        auditSvc,
		mailSvc:         mailSvc,
		cache:           cache,
		protectedEmails: protected,
	}
}

func (svc *service) CheckUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers); err != nil {
		if err != ErrEmailExists {
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.cache.Invalidate(core.ViewAdminUsers)
	return usr, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.cache.Invalidate(core.ViewAdminUsers)
	return usr, nil
}

func (svc *service) Delete(ctx context.Context, actor User, ids ...string) error {
	if err := Authorize(&actor, RoleAdmin); err != nil {
		return err
	}
	for _, id := range ids {
		if id == actor.ID {
			return ErrCannotTouchSelf
		}
	}
	if _, err := svc.repo.DeleteUsersByID(ctx, ids); err != nil {
		return err
	}
	svc.cache.Invalidate(core.ViewAdminUsers)
	return nil
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, User{ID: usr.ID, LastLogin: usr.LastLogin})
}

// isProtected reports whether the normalized email belongs to the configured
// immutable super admin set.
func (svc *service) isProtected(email string) bool {
	email = core.CleanString(email, true /* lower */)
	for _, protected := range svc.protectedEmails {
		if email == protected {
			return true
		}
	}
	return false
}

// assertMutable fetches the target and checks it may be mutated by actor.
// Check order matters: self, then existence, then immutability.
func (svc *service) assertMutable(ctx context.Context, actor User, targetID string) (User, error) {
	if actor.ID == targetID {
		return User{}, ErrCannotTouchSelf
	}
	target, err := svc.repo.GetUser(ctx, GetFilter{ID: targetID})
	if err != nil {
		return User{}, err
	}
	if target.IsSuperAdmin() && svc.isProtected(target.Email) {
		return User{}, ErrImmutableTarget
	}
	return target, nil
}

func (svc *service) UpdateRole(ctx context.Context, actor User, targetID, newRole string) (User, error) {
	if err := Authorize(&actor, RoleSuperAdmin); err != nil {
		return User{}, err
	}
	target, err := svc.assertMutable(ctx, actor, targetID)
	if err != nil {
		return User{}, err
	}
	if RolePriority(newRole) == 0 {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}

	var updated User
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var txErr error
		if updated, txErr = svc.repo.SetUserRole(ctx, target.ID, newRole, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating user role")
		}
		details := fmt.Sprintf("changed role of %s to %s", target.Email, newRole)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionUpdateRole, details, tx)
	})
	if err != nil {
		return User{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewAdminUsers)
	return updated, nil
}

// setBanned applies the ban flag and its audit entry as one transaction.
func (svc *service) setBanned(ctx context.Context, actor, target User, banned bool) (User, error) {
	action, verb := audit.ActionBanUser, "banned"
	if !banned {
		action, verb = audit.ActionUnbanUser, "unbanned"
	}

	var updated User
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var txErr error
		if updated, txErr = svc.repo.SetUserBanned(ctx, target.ID, banned, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating user ban state")
		}
		details := fmt.Sprintf("%s %s", verb, target.Email)
		return svc.auditSvc.Append(ctx, actor.ID, action, details, tx)
	})
	if err != nil {
		return User{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewAdminUsers)
	return updated, nil
}

func (svc *service) ToggleBan(ctx context.Context, actor User, targetID string) (User, error) {
	if err := Authorize(&actor, RoleSuperAdmin); err != nil {
		return User{}, err
	}
	target, err := svc.assertMutable(ctx, actor, targetID)
	if err != nil {
		return User{}, err
	}
	return svc.setBanned(ctx, actor, target, !target.IsBanned)
}

// Ban is the idempotent variant: banning an already banned user succeeds
// without a mutation or an audit entry.
func (svc *service) Ban(ctx context.Context, actor User, targetID string) (User, error) {
	if err := Authorize(&actor, RoleSuperAdmin); err != nil {
		return User{}, err
	}
	target, err := svc.assertMutable(ctx, actor, targetID)
	if err != nil {
		return User{}, err
	}
	if target.IsBanned {
		return target, nil
	}
	return svc.setBanned(ctx, actor, target, true)
}

// Unban is the idempotent variant of lifting a ban.
func (svc *service) Unban(ctx context.Context, actor User, targetID string) (User, error) {
	if err := Authorize(&actor, RoleSuperAdmin); err != nil {
		return User{}, err
	}
	target, err := svc.assertMutable(ctx, actor, targetID)
	if err != nil {
		return User{}, err
	}
	if !target.IsBanned {
		return target, nil
	}
	return svc.setBanned(ctx, actor, target, false)
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	token, err := MakeToken(usr)
	if err != nil {
		return
	}
	url := fmt.Sprintf("%s/password-reset?uid=%s&token=%s", core.Conf.FrontendBaseURL, EncodeUID(usr), token)
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject: "Password Reset",
			BodyStr: fmt.Sprintf(
				"You're receiving this email because you requested a password reset for your account.\n\n"+
					"Please go to the following page and choose a new password:\n%s\n\n"+
					"If you did not make this request, you can safely ignore this email.", url),
		},
	)
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
