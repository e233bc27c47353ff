package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/scent-quiz/internal/apperr"
	"github.com/saulo-duarte/scent-quiz/internal/auth"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/validation"
	"github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound   = fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	ErrSelfDelete     = fmt.Errorf("%w: you cannot delete your own account", apperr.ErrValidation)
)

// Purger removes a user's quiz history, and optionally the user, in
// dependency order.
type Purger interface {
	DeleteUserCascade(ctx context.Context, userID uuid.UUID, keepUser bool) (DeleteReport, error)
}

type UserService interface {
	Enter(ctx context.Context, dto EntryDTO) (*EntryResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID, keepUser bool) (DeleteReport, error)
}

type userService struct {
	repo      UserRepository
	purger    Purger
	validator *validation.Validator
	auth      config.AuthSettings
}

func NewService(repo UserRepository, purger Purger, v *validation.Validator, authSettings config.AuthSettings) UserService {
	return &userService{
		repo:      repo,
		purger:    purger,
		validator: v,
		auth:      authSettings,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Enter finds the user by email or registers a new one, then issues a token.
// An existing user keeps the stored name, age and gender.
func (s *userService) Enter(ctx context.Context, dto EntryDTO) (*EntryResponse, error) {
	log := config.WithContext(ctx)

	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = normalizeEmail(dto.Email)
	if err := s.validator.Struct(dto); err != nil {
		log.WithError(err).Warn("Rejected user entry")
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		log.WithError(err).Error("Failed to look up user by email")
		return nil, fmt.Errorf("%w: get user by email: %w", apperr.ErrPersistence, err)
	}

	created := false
	if u == nil {
		u = &User{
			Name:   dto.Name,
			Email:  dto.Email,
			Age:    dto.Age,
			Gender: dto.Gender,
		}
		err = s.repo.Create(ctx, u)
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			// registered concurrently
			if u, err = s.repo.GetByEmail(ctx, dto.Email); err != nil || u == nil {
				log.WithError(err).Error("Failed to reload user after duplicate email")
				return nil, ErrDuplicateEmail
			}
		case err != nil:
			log.WithError(err).Error("Failed to create user")
			return nil, fmt.Errorf("%w: create user: %w", apperr.ErrPersistence, err)
		default:
			created = true
		}
	}

	role := auth.RoleUser
	if s.auth.IsAdmin(u.Email) {
		role = auth.RoleAdmin
	}
	token, err := auth.GenerateJWT(u.ID.String(), role, s.auth.TokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.WithFields(logrus.Fields{
		"user_id": u.ID,
		"created": created,
		"role":    role,
	}).Info("User entered")

	return &EntryResponse{User: u, Token: token, Created: created}, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("user_id", id).Error("Failed to get user")
		return nil, fmt.Errorf("%w: get user: %w", apperr.ErrPersistence, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.repo.ListSummaries(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("%w: list users: %w", apperr.ErrPersistence, err)
	}
	return users, nil
}

// DeleteUser clears the target's quiz history and, unless keepUser is set,
// the user row. Nobody may delete their own account; uuid.Nil as actor means
// an operator outside any user session.
func (s *userService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID, keepUser bool) (DeleteReport, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"actor_id":  actorID,
		"target_id": targetID,
		"keep_user": keepUser,
	})

	if !keepUser && actorID == targetID {
		log.Warn("Attempt to delete own account")
		return DeleteReport{}, ErrSelfDelete
	}

	if _, err := s.GetUser(ctx, targetID); err != nil {
		return DeleteReport{}, err
	}

	report, err := s.purger.DeleteUserCascade(ctx, targetID, keepUser)
	if err != nil {
		log.WithError(err).Error("Failed to delete user data")
		return DeleteReport{}, fmt.Errorf("%w: delete user data: %w", apperr.ErrPersistence, err)
	}

	log.WithFields(logrus.Fields{
		"analytics": report.Analytics,
		"formulas":  report.Formulas,
		"responses": report.Responses,
		"sessions":  report.Sessions,
		"users":     report.Users,
	}).Info("User data deleted")
	return report, nil
}
