// Package service keeps auth records and their role profiles in step.
//
// An auth record (collection "auth") names a role and links the role's profile through a
// "<role>Id" field, e.g. hotelId -> hotels/<id>. Name, email and status are mirrored onto the linked
// profile; every operation runs in one store transaction so both documents change or neither does.
package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/requesttrace"
)

// AuthCollection holds the central auth records.
const AuthCollection = "auth"

const (
	fieldName  = "name"
	fieldEmail = "email"
	fieldRole  = "role"
)

// ProfileCollections maps each role to the collection of its profiles.
var ProfileCollections = map[string]string{
	platformauth.RoleAdmin:     "admins",
	platformauth.RoleHotel:     "hotels",
	platformauth.RoleVendor:    "vendors",
	platformauth.RoleMarketing: "marketing",
	platformauth.RoleUser:      "users",
}

// ErrProfileMissing is matched by ProfileMissingError.
var ErrProfileMissing = errors.New("linked profile missing")

// ProfileMissingError reports a link to a profile that no longer exists. It matches ErrProfileMissing
// and content.ErrConflict.
type ProfileMissingError struct {
	Role string
	ID   string
}

func (e *ProfileMissingError) Error() string {
	return "Linked " + e.Role + " profile not found"
}

func (e *ProfileMissingError) Is(target error) bool {
	return target == ErrProfileMissing || target == content.ErrConflict
}

// Account is the materialized auth record.
type Account struct {
	content.Meta
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	// ProfileID is the linked profile of the current role, empty when unlinked.
	ProfileID string `json:"profileId,omitempty"`
	// Profiles lists every populated "<role>Id" link.
	Profiles map[string]string `json:"profiles,omitempty"`
}

// Decode materializes an auth record.
func Decode(doc docstore.Document) (Account, error) {
	role := doc.String(fieldRole)
	if _, ok := ProfileCollections[role]; !ok {
		return Account{}, errors.New("unknown role " + role)
	}

	profiles := map[string]string{}
	for r := range ProfileCollections {
		if id := doc.String(linkField(r)); id != "" {
			profiles[r] = id
		}
	}

	return Account{
		Meta:      content.MetaFrom(doc),
		Email:     doc.String(fieldEmail),
		Name:      doc.String(fieldName),
		Role:      role,
		ProfileID: profiles[role],
		Profiles:  profiles,
	}, nil
}

// Config describes the auth record kind. Writes go through the synchronizer only.
func Config() content.Config[Account] {
	return content.Config[Account]{
		Kind: content.Kind[Account]{
			Name:       "Account",
			Plural:     "accounts",
			Collection: AuthCollection,
			Ordering:   content.ByCreatedDesc,
			Decode:     Decode,
		},
	}
}

// UpdateInput carries the mirrored fields; nil fields keep their value.
type UpdateInput struct {
	Name  *string
	Email *string
	Role  *string
}

// Service defines the auth/role synchronizer.
type Service interface {
	content.Refresher
	Get(ctx context.Context, id string) (Account, error)
	List(ctx context.Context, forceRefresh bool) ([]Account, error)
	// UpdateAuthStatus sets status on the auth record and, except for the user role, on the linked profile.
	UpdateAuthStatus(ctx context.Context, id, status string) (Account, error)
	// UpdateAuth mirrors name and email into the linked profile of the current role and, on a role
	// change, of the previous role too.
	UpdateAuth(ctx context.Context, id string, input UpdateInput) (Account, error)
	// DeleteAuth deletes the linked profile, if any, then the auth record.
	DeleteAuth(ctx context.Context, id string) error
}

type service struct {
	store  docstore.Store
	repo   *content.Repository[Account]
	logger *zap.Logger
}

// New constructs the synchronizer over store.
func New(store docstore.Store, opts content.Options) Service {
	if store == nil {
		panic("document store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		store:  store,
		repo:   content.NewRepository(store, Config(), opts),
		logger: logger.With(zap.String("component", "accounts")),
	}
}

func (s *service) Name() string                      { return s.repo.Name() }
func (s *service) Refresh(ctx context.Context) error { return s.repo.Refresh(ctx) }
func (s *service) Watch(ctx context.Context) error   { return s.repo.Watch(ctx) }

func (s *service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]Account, error) {
	return s.repo.GetAll(ctx, forceRefresh)
}

func (s *service) UpdateAuthStatus(ctx context.Context, id, status string) (Account, error) {
	if status != content.StatusActive && status != content.StatusInactive {
		return Account{}, content.NewValidationError(map[string]string{content.FieldStatus: "must be active or inactive"})
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		record, err := s.loadAuth(tx, id)
		if err != nil {
			return err
		}

		role := record.String(fieldRole)
		var profile *link
		if role != platformauth.RoleUser {
			if profile, err = s.loadLink(tx, record, role); err != nil {
				return err
			}
		}

		patch := map[string]any{
			content.FieldStatus:    status,
			content.FieldUpdatedOn: docstore.ServerTimestamp,
		}
		requesttrace.Stamp(ctx, patch, content.FieldUpdatedBy)
		if err := tx.Update(AuthCollection, id, patch); err != nil {
			return err
		}
		if profile != nil {
			return tx.Update(profile.collection, profile.id, patch)
		}
		return nil
	})
	if err != nil {
		return Account{}, s.txError(id, content.OpUpdate, err)
	}

	return s.refreshed(ctx, id)
}

func (s *service) UpdateAuth(ctx context.Context, id string, input UpdateInput) (Account, error) {
	if err := validateUpdate(input); err != nil {
		return Account{}, err
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		record, err := s.loadAuth(tx, id)
		if err != nil {
			return err
		}

		oldRole := record.String(fieldRole)
		newRole := oldRole
		if input.Role != nil {
			newRole = *input.Role
		}

		roles := []string{oldRole}
		if newRole != oldRole {
			roles = append(roles, newRole)
		}
		var profiles []*link
		for _, role := range roles {
			profile, err := s.loadLink(tx, record, role)
			if err != nil {
				return err
			}
			if profile != nil {
				profiles = append(profiles, profile)
			}
		}

		name := record.String(fieldName)
		if input.Name != nil {
			name = strings.TrimSpace(*input.Name)
		}
		email := record.String(fieldEmail)
		if input.Email != nil {
			email = strings.TrimSpace(*input.Email)
		}

		mirror := map[string]any{
			fieldName:              name,
			fieldEmail:             email,
			content.FieldUpdatedOn: docstore.ServerTimestamp,
		}
		requesttrace.Stamp(ctx, mirror, content.FieldUpdatedBy)
		authPatch := map[string]any{fieldRole: newRole}
		for k, v := range mirror {
			authPatch[k] = v
		}

		if err := tx.Update(AuthCollection, id, authPatch); err != nil {
			return err
		}
		for _, profile := range profiles {
			if err := tx.Update(profile.collection, profile.id, mirror); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Account{}, s.txError(id, content.OpUpdate, err)
	}

	return s.refreshed(ctx, id)
}

func (s *service) DeleteAuth(ctx context.Context, id string) error {
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		record, err := s.loadAuth(tx, id)
		if err != nil {
			return err
		}

		role := record.String(fieldRole)
		profile, err := s.loadLink(tx, record, role)
		var missing *ProfileMissingError
		switch {
		case errors.As(err, &missing):
			s.logger.Warn("deleting account with missing profile", zap.String("id", id), zap.String("role", role))
			profile = nil
		case err != nil:
			return err
		}

		if profile != nil {
			if err := tx.Delete(profile.collection, profile.id); err != nil {
				return err
			}
		}
		return tx.Delete(AuthCollection, id)
	})
	if err != nil {
		return s.txError(id, content.OpDelete, err)
	}

	return s.repo.Refresh(ctx)
}

// link is a resolved "<role>Id" reference.
type link struct {
	collection string
	id         string
}

func linkField(role string) string {
	return role + "Id"
}

func (s *service) loadAuth(tx docstore.Tx, id string) (docstore.Document, error) {
	record, err := tx.Get(AuthCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return docstore.Document{}, &content.NotFoundError{Kind: "Account", ID: id}
	}
	return record, err
}

// loadLink resolves the role's linked profile, nil when the record carries no link.
func (s *service) loadLink(tx docstore.Tx, record docstore.Document, role string) (*link, error) {
	collection, ok := ProfileCollections[role]
	if !ok {
		return nil, nil
	}
	id := record.String(linkField(role))
	if id == "" {
		return nil, nil
	}

	if _, err := tx.Get(collection, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &ProfileMissingError{Role: role, ID: id}
		}
		return nil, err
	}
	return &link{collection: collection, id: id}, nil
}

// txError keeps domain errors and wraps store failures.
func (s *service) txError(id, op string, err error) error {
	if errors.Is(err, content.ErrNotFound) || errors.Is(err, ErrProfileMissing) {
		return err
	}
	s.logger.Error("account "+op+" failed", zap.String("id", id), zap.Error(err))
	return &content.StoreError{Op: op, Kind: "account", Err: err}
}

func (s *service) refreshed(ctx context.Context, id string) (Account, error) {
	if err := s.repo.Refresh(ctx); err != nil {
		return Account{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func validateUpdate(input UpdateInput) error {
	fieldErrors := content.FieldErrors{}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		fieldErrors.Add(fieldName, "is required")
	}
	if input.Email != nil && !strings.Contains(*input.Email, "@") {
		fieldErrors.Add(fieldEmail, "must be an email address")
	}
	if input.Role != nil && !slices.Contains(platformauth.Roles, *input.Role) {
		fieldErrors.Add(fieldRole, "must be one of "+strings.Join(platformauth.Roles, ", "))
	}
	if input.Name == nil && input.Email == nil && input.Role == nil {
		fieldErrors.Add("payload", "at least one of name, email or role is required")
	}
	if len(fieldErrors) > 0 {
		return &content.ValidationError{Fields: fieldErrors}
	}
	return nil
}
