package authz

import (
	"context"
	"errors"
	"strings"

	"feedback-backend/internal/models"
	"feedback-backend/internal/repository"
)

var ErrForbidden = errors.New("forbidden")

// Service derives the caller's effective role from the users collection and
// gates each protected operation. The per-endpoint rules live here rather
// than being re-derived in every handler.
type Service struct {
	users repository.UserStore
}

func New(users repository.UserStore) *Service {
	return &Service{users: users}
}

// RoleOf returns the caller's stored role, or "" when no user record exists.
func (s *Service) RoleOf(ctx context.Context, uid string) (string, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

// IsManager compares the stored role case-insensitively. Absence of a record
// counts as not a manager.
func (s *Service) IsManager(ctx context.Context, uid string) (bool, error) {
	role, err := s.RoleOf(ctx, uid)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(role, models.RoleManager), nil
}

// RequireManager gates operations open only to managers: listing employees,
// viewing authored feedback, updating feedback. A caller with no user record
// is forbidden, same as a non-manager.
func (s *Service) RequireManager(ctx context.Context, uid string) error {
	role, err := s.RoleOf(ctx, uid)
	if err != nil {
		return err
	}
	if role != models.RoleManager {
		return ErrForbidden
	}
	return nil
}

// CanUpdate allows only the authoring manager to edit a feedback record.
// The manager role itself is checked by RequireManager before the record is
// even fetched, so this only verifies authorship.
func (s *Service) CanUpdate(uid string, feedback *models.Feedback) error {
	if feedback.From != uid {
		return ErrForbidden
	}
	return nil
}

// CanRespond allows only the declared recipient to acknowledge or comment.
func (s *Service) CanRespond(uid string, feedback *models.Feedback) error {
	if feedback.To != uid {
		return ErrForbidden
	}
	return nil
}
