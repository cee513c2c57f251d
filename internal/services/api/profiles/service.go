// Package profiles exposes customer and staff profiles.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/rs/zerolog/log"
)

// ErrServiceNotConfigured indicates the profiles service is nil.
var ErrServiceNotConfigured = errors.New("profiles service is not configured")

var errProfileNotFound = apperrors.New(apperrors.CodeNotFound, "Profile not found")

// Service reads and edits profiles.
type Service struct {
	store storage.AccountStore
	clock func() time.Time
}

// NewService builds a profiles service.
func NewService(store storage.AccountStore, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// SelfUpdate is the subset of fields a user may change on their own profile.
type SelfUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// AdminUpdate is the staff edit of any profile.
type AdminUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// Message is the acknowledgement returned by deletions.
type Message struct {
	Message string `json:"message"`
}

func (s *Service) load(ctx context.Context, id string) (storage.Profile, error) {
	profile, err := s.store.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Profile{}, errProfileNotFound
	}
	if err != nil {
		return storage.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func applyNames(p *storage.Profile, first, last, phone *string) {
	if first != nil {
		p.FirstName = strings.TrimSpace(*first)
	}
	if last != nil {
		p.LastName = strings.TrimSpace(*last)
	}
	if phone != nil {
		p.Phone = strings.TrimSpace(*phone)
	}
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, caller requestctx.User) (storage.Profile, error) {
	if s == nil || s.store == nil {
		return storage.Profile{}, ErrServiceNotConfigured
	}
	if err := access.RequireUser(caller, caller.ID != ""); err != nil {
		return storage.Profile{}, err
	}
	return s.load(ctx, caller.ID)
}

// UpdateMe edits the caller's names and phone.
func (s *Service) UpdateMe(ctx context.Context, caller requestctx.User, in SelfUpdate) (storage.Profile, error) {
	profile, err := s.Me(ctx, caller)
	if err != nil {
		return storage.Profile{}, err
	}
	applyNames(&profile, in.FirstName, in.LastName, in.Phone)
	profile.UpdatedAt = s.clock().UTC()
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return storage.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// List returns every profile, newest first. Staff only.
func (s *Service) List(ctx context.Context, caller requestctx.User) ([]storage.Profile, error) {
	if s == nil || s.store == nil {
		return nil, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return nil, err
	}
	return s.store.ListProfiles(ctx)
}

// Get returns a profile to its owner or to staff.
func (s *Service) Get(ctx context.Context, caller requestctx.User, id string) (storage.Profile, error) {
	if s == nil || s.store == nil {
		return storage.Profile{}, ErrServiceNotConfigured
	}
	if err := access.RequireSelfOrStaff(caller, id); err != nil {
		return storage.Profile{}, err
	}
	return s.load(ctx, id)
}

// Update edits any profile, including its role. Staff only, and role
// changes follow access.CanAssignRole.
func (s *Service) Update(ctx context.Context, caller requestctx.User, id string, in AdminUpdate) (storage.Profile, error) {
	if s == nil || s.store == nil {
		return storage.Profile{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return storage.Profile{}, err
	}
	profile, err := s.load(ctx, id)
	if err != nil {
		return storage.Profile{}, err
	}

	actor := access.Role(caller.Role)
	newRole := profile.Role
	if in.Role != nil {
		role, ok := access.ParseRole(strings.TrimSpace(*in.Role))
		if !ok {
			return storage.Profile{}, apperrors.New(apperrors.CodeInvalidArgument, "role must be one of client, admin, superadmin")
		}
		newRole = role
	}
	if !access.CanAssignRole(actor, profile.Role, newRole) {
		return storage.Profile{}, apperrors.New(apperrors.CodeRoleAssignmentDenied, "Insufficient permissions to modify this profile")
	}

	applyNames(&profile, in.FirstName, in.LastName, in.Phone)
	if newRole != profile.Role {
		log.Ctx(ctx).Info().
			Str("actor_id", caller.ID).
			Str("profile_id", profile.ID).
			Str("from", string(profile.Role)).
			Str("to", string(newRole)).
			Msg("role changed")
	}
	profile.Role = newRole
	profile.UpdatedAt = s.clock().UTC()
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return storage.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// Delete removes a profile and its credentials. Staff only; staff cannot
// delete themselves.
func (s *Service) Delete(ctx context.Context, caller requestctx.User, id string) (Message, error) {
	if s == nil || s.store == nil {
		return Message{}, ErrServiceNotConfigured
	}
	if err := access.RequireStaff(caller); err != nil {
		return Message{}, err
	}
	if caller.ID == id {
		return Message{}, apperrors.New(apperrors.CodeSelfDeletion, "You cannot delete your own profile")
	}
	target, err := s.load(ctx, id)
	if err != nil {
		return Message{}, err
	}
	if !access.CanAssignRole(access.Role(caller.Role), target.Role, target.Role) {
		return Message{}, apperrors.New(apperrors.CodeRoleAssignmentDenied, "Insufficient permissions to modify this profile")
	}
	if err := s.store.DeleteProfile(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Message{}, errProfileNotFound
		}
		return Message{}, fmt.Errorf("delete profile: %w", err)
	}
	return Message{Message: "Profile deleted successfully"}, nil
}
