package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/slack"
)

// DefaultManagerFieldID is the workspace custom field holding a user's managers.
const DefaultManagerFieldID = "Xf09727DH1J8"

// SlackProfiles is the part of the Slack client used for profile reads and writes.
type SlackProfiles interface {
	GetProfile(ctx context.Context, token, userID string) (domain.Profile, error)
	GetUser(ctx context.Context, token, userID string) (*slack.User, error)
	SetProfile(ctx context.Context, token, userID string, profile map[string]any) error
}

// ProfileConfig holds profile configuration.
type ProfileConfig struct {
	ManagerFieldID string
}

// ProfileService reads and writes Slack profiles with the caller's user token.
type ProfileService struct {
	slack        SlackProfiles
	managerField string
}

// NewProfileService creates a new ProfileService.
func NewProfileService(slack SlackProfiles, cfg ProfileConfig) *ProfileService {
	field := cfg.ManagerFieldID
	if field == "" {
		field = DefaultManagerFieldID
	}
	return &ProfileService{slack: slack, managerField: field}
}

// ManagerFieldID returns the custom field used to store managers.
func (s *ProfileService) ManagerFieldID() string {
	return s.managerField
}

func requireSession(session *domain.Session) error {
	if !session.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// GetOwnProfile returns the caller's full profile.
func (s *ProfileService) GetOwnProfile(ctx context.Context, session *domain.Session) (domain.Profile, error) {
	if err := requireSession(session); err != nil {
		return domain.Profile{}, err
	}
	profile, err := s.slack.GetProfile(ctx, session.AccessToken, session.UserID)
	if err != nil {
		return domain.Profile{}, upstreamError(domain.ErrUpstreamRead, err)
	}
	return profile, nil
}

// GetUserSummary looks up another user. Every failure, Slack's user_not_found or a
// transport error alike, is reported as domain.ErrUserNotFound.
func (s *ProfileService) GetUserSummary(ctx context.Context, session *domain.Session, userID string) (*domain.UserSummary, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.slack.GetUser(ctx, session.AccessToken, userID)
	if err != nil {
		return nil, upstreamError(domain.ErrUserNotFound, err)
	}
	summary := user.Summary()
	return &summary, nil
}

// UpdateField writes one field of the caller's own profile.
func (s *ProfileService) UpdateField(ctx context.Context, session *domain.Session, update domain.ProfileFieldUpdate) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if update.Field.ID == "" {
		return &domain.ValidationError{Field: "field", Message: "Field ID required"}
	}
	if err := s.slack.SetProfile(ctx, session.AccessToken, session.UserID, update.Payload()); err != nil {
		return upstreamError(domain.ErrUpstreamWrite, err)
	}
	return nil
}

// Managers resolves the caller's manager list. IDs that no longer resolve are skipped.
func (s *ProfileService) Managers(ctx context.Context, session *domain.Session) ([]domain.UserSummary, error) {
	list, err := s.currentManagers(ctx, session)
	if err != nil {
		return nil, err
	}
	managers := make([]domain.UserSummary, 0, len(list))
	for _, id := range list {
		summary, err := s.GetUserSummary(ctx, session, id)
		if err != nil {
			slog.Warn("skipping unresolvable manager", "manager_id", id, "error", err)
			continue
		}
		managers = append(managers, *summary)
	}
	return managers, nil
}

// AddManager appends managerID to the caller's manager list. When expected is non-nil
// the write only happens if the stored list still equals it, otherwise ErrConflict.
// Without expected, concurrent writers can overwrite each other's additions.
func (s *ProfileService) AddManager(ctx context.Context, session *domain.Session, managerID string, expected *string) (domain.ManagerList, error) {
	return s.mutateManagers(ctx, session, managerID, expected, domain.ManagerList.With)
}

// RemoveManager removes managerID from the caller's manager list, with the same
// expected-value check as AddManager.
func (s *ProfileService) RemoveManager(ctx context.Context, session *domain.Session, managerID string, expected *string) (domain.ManagerList, error) {
	return s.mutateManagers(ctx, session, managerID, expected, domain.ManagerList.Without)
}

func (s *ProfileService) mutateManagers(
	ctx context.Context,
	session *domain.Session,
	managerID string,
	expected *string,
	apply func(domain.ManagerList, string) (domain.ManagerList, bool),
) (domain.ManagerList, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	managerID = strings.TrimSpace(managerID)
	if managerID == "" || strings.Contains(managerID, ",") {
		return nil, &domain.ValidationError{Field: "id", Message: "a single user ID is required"}
	}

	current, err := s.currentManagers(ctx, session)
	if err != nil {
		return nil, err
	}
	if expected != nil && domain.ParseManagerList(*expected).String() != current.String() {
		return nil, fmt.Errorf("%w: manager list changed since it was read", domain.ErrConflict)
	}

	next, changed := apply(current, managerID)
	if !changed {
		return current, nil
	}
	err = s.UpdateField(ctx, session, domain.ProfileFieldUpdate{
		Field: domain.ProfileField{Kind: domain.FieldCustom, ID: s.managerField},
		Value: next.String(),
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *ProfileService) currentManagers(ctx context.Context, session *domain.Session) (domain.ManagerList, error) {
	profile, err := s.GetOwnProfile(ctx, session)
	if err != nil {
		return nil, err
	}
	return domain.ParseManagerList(profile.FieldValue(s.managerField)), nil
}
