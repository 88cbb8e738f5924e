package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
	"planboard/internal/view"
)

type UserService struct {
	users    *repository.UserRepository
	projects *repository.ProjectRepository
	log      *logrus.Logger
}

func NewUserService(users *repository.UserRepository, projects *repository.ProjectRepository, log *logrus.Logger) *UserService {
	return &UserService{users: users, projects: projects, log: log}
}

// UserCreateFields describes a new account. No password: a temporary
// credential is generated and delivered out of band.
type UserCreateFields struct {
	Name   string
	Email  string
	Role   model.Role
	TeamID *uuid.UUID
}

// UserUpdateFields is a partial update; nil pointers leave the field as
// is. Passwords are re-hashed on change.
type UserUpdateFields struct {
	Name      *string
	AvatarURL *string
	Password  *string

	NotifyOnAssignment    *bool
	NotifyOnComment       *bool
	NotifyOnStatusChange  *bool
	NotifyOnDueDateChange *bool
}

// Create registers a user with a generated temporary credential. The
// credential is never returned; the invitation goes through the external
// mail collaborator, which here is a log line at the boundary.
func (s *UserService) Create(ctx context.Context, caller identity.Caller, fields UserCreateFields) (*view.User, error) {
	if err := authz.CanCreateUser(caller); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(fields.Email))
	if fields.Name == "" || email == "" {
		return nil, apperr.Validationf("name and email are required")
	}
	if !fields.Role.Valid() {
		return nil, apperr.Validationf("unknown role %q", fields.Role)
	}
	if fields.Role == model.RoleGuest {
		return nil, apperr.Validationf("guests are created through the invite operation")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Transaction(err)
	}
	if existing != nil {
		return nil, apperr.Conflictf("a user with email %s already exists", email)
	}

	hash, err := tempCredentialHash()
	if err != nil {
		return nil, apperr.Transaction(err)
	}

	user := &model.User{
		ID:             uuid.New(),
		Name:           fields.Name,
		Email:          email,
		HashedPassword: hash,
		Role:           fields.Role,
	}
	if user.Role.HasTeam() {
		user.TeamID = fields.TeamID
	}
	applyDefaultPreferences(user)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Transaction(err)
	}

	// Invitation dispatch is an external collaborator.
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).
		Info("invitation queued for new user")

	v := view.NewUser(user)
	return &v, nil
}

// Update edits a user record: super admins may edit anyone, everyone may
// edit themselves. Guests have fixed notification preferences and cannot
// change them.
func (s *UserService) Update(ctx context.Context, caller identity.Caller, userID uuid.UUID, fields UserUpdateFields) (*view.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authz.CanUpdateUser(caller, user); err != nil {
		return nil, err
	}

	prefEdit := fields.NotifyOnAssignment != nil || fields.NotifyOnComment != nil ||
		fields.NotifyOnStatusChange != nil || fields.NotifyOnDueDateChange != nil
	if prefEdit && user.Role == model.RoleGuest {
		return nil, apperr.Validationf("guests cannot edit notification preferences")
	}

	if fields.Name != nil {
		if *fields.Name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		user.Name = *fields.Name
	}
	if fields.AvatarURL != nil {
		user.AvatarURL = *fields.AvatarURL
	}
	if fields.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*fields.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Transaction(err)
		}
		user.HashedPassword = string(hash)
	}
	if fields.NotifyOnAssignment != nil {
		user.NotifyOnAssignment = *fields.NotifyOnAssignment
	}
	if fields.NotifyOnComment != nil {
		user.NotifyOnComment = *fields.NotifyOnComment
	}
	if fields.NotifyOnStatusChange != nil {
		user.NotifyOnStatusChange = *fields.NotifyOnStatusChange
	}
	if fields.NotifyOnDueDateChange != nil {
		user.NotifyOnDueDateChange = *fields.NotifyOnDueDateChange
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	v := view.NewUser(user)
	return &v, nil
}

// Delete disables a user. Non-guest rows are kept for audit and only
// flagged; guests carry no history and are removed outright.
func (s *UserService) Delete(ctx context.Context, caller identity.Caller, userID uuid.UUID) (*view.User, error) {
	if err := authz.CanDeleteUser(caller); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	if user.Role == model.RoleGuest {
		if err := s.users.HardDelete(ctx, userID); err != nil {
			return nil, storeErr(err)
		}
	} else {
		if err := s.users.Disable(ctx, userID); err != nil {
			return nil, storeErr(err)
		}
		user.Disabled = true
	}

	v := view.NewUser(user)
	return &v, nil
}

// InviteGuest creates a guest account scoped to exactly one project. Team
// leaders may only invite into their own team's projects.
func (s *UserService) InviteGuest(ctx context.Context, caller identity.Caller, name, email string, projectID uuid.UUID) (*view.User, error) {
	if err := authz.CanInviteGuest(caller); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, storeErr(err)
	}
	if caller.Role == model.RoleTeamLeader && !caller.SameTeam(project.TeamID) {
		return nil, apperr.Unauthorizedf("team leader can only invite guests to their own team's projects")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperr.Validationf("name and email are required")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Transaction(err)
	}
	if existing != nil {
		return nil, apperr.Conflictf("a user with email %s already exists", email)
	}

	hash, err := tempCredentialHash()
	if err != nil {
		return nil, apperr.Transaction(err)
	}

	guest := &model.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hash,
		Role:           model.RoleGuest,
		ProjectID:      &projectID,
	}
	applyDefaultPreferences(guest)

	if err := s.users.Create(ctx, guest); err != nil {
		return nil, apperr.Transaction(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": guest.ID, "project_id": projectID}).
		Info("guest invitation queued")

	v := view.NewUser(guest)
	return &v, nil
}

// RevokeGuest removes a guest account. Guests are hard-deleted; there is
// no audit requirement for them.
func (s *UserService) RevokeGuest(ctx context.Context, caller identity.Caller, guestID uuid.UUID) error {
	if err := authz.CanInviteGuest(caller); err != nil {
		return err
	}

	guest, err := s.users.GetByID(ctx, guestID)
	if err != nil {
		return storeErr(err)
	}
	if guest.Role != model.RoleGuest {
		return apperr.Validationf("user %s is not a guest", guestID)
	}
	if caller.Role == model.RoleTeamLeader && guest.ProjectID != nil {
		project, err := s.projects.GetByID(ctx, *guest.ProjectID)
		if err != nil {
			return storeErr(err)
		}
		if !caller.SameTeam(project.TeamID) {
			return apperr.Unauthorizedf("team leader can only revoke guests of their own team's projects")
		}
	}

	return storeErrNil(s.users.HardDelete(ctx, guestID))
}

func storeErrNil(err error) error {
	if err == nil {
		return nil
	}
	return storeErr(err)
}

// tempCredentialHash builds the hash of a throwaway random credential.
// The plaintext never leaves this function; the invited user resets it
// through the out-of-band flow.
func tempCredentialHash() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func applyDefaultPreferences(u *model.User) {
	u.NotifyOnAssignment = true
	u.NotifyOnComment = true
	u.NotifyOnStatusChange = true
	u.NotifyOnDueDateChange = true
}
