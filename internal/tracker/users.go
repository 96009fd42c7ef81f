// ABOUTME: Admin-only user registration and API key revocation
// ABOUTME: Uniqueness is checked before insert and admins cannot revoke themselves

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2389/calorie-gateway/internal/auth"
	"github.com/2389/calorie-gateway/internal/store"
)

// RegisterInput describes a new user. An empty APIKey is generated.
type RegisterInput struct {
	Name   string
	Email  string
	APIKey string
	Role   store.Role
}

// Registration is a newly created user and the only copy of their raw key.
type Registration struct {
	User   *store.User
	APIKey string
}

// RevokeInput names the user whose key should be revoked. Exactly one field is set.
type RevokeInput struct {
	UserID string
	Email  string
}

// RegisterUser creates a user with role "user". Only admins may call it.
func (s *Service) RegisterUser(ctx context.Context, caller auth.Identity, in RegisterInput) (*Registration, error) {
	if !caller.IsAdmin {
		return nil, ErrRegisterForbidden
	}
	in.Role = store.RoleUser
	return s.createUser(ctx, in)
}

// BootstrapAdmin creates an admin account. It is used by the CLI to seed the
// first administrator and is not exposed as a tool.
func (s *Service) BootstrapAdmin(ctx context.Context, in RegisterInput) (*Registration, error) {
	in.Role = store.RoleAdmin
	return s.createUser(ctx, in)
}

func (s *Service) createUser(ctx context.Context, in RegisterInput) (*Registration, error) {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "Name is required.")
	}
	if !strings.Contains(in.Email, "@") {
		problems = append(problems, "Invalid email format.")
	}
	if len(problems) > 0 {
		return nil, validationError(problems...)
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	_, err = st.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return nil, conflict(fmt.Sprintf("User with email %s already exists.", in.Email))
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, s.storageFailure("register user", err)
	}

	key := in.APIKey
	if key == "" {
		key = s.newAPIKey()
	}
	hash := s.hasher.Hash(key)

	_, err = st.GetUserByAPIKeyHash(ctx, hash)
	if err == nil {
		return nil, conflict("API key already exists. Please provide a different one.")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, s.storageFailure("register user", err)
	}

	user := &store.User{
		ID:         s.newID(),
		Name:       in.Name,
		Email:      in.Email,
		APIKeyHash: &hash,
		Role:       in.Role,
	}
	switch err := st.CreateUser(ctx, user); {
	case errors.Is(err, store.ErrDuplicateEmail):
		return nil, conflict(fmt.Sprintf("User with email %s already exists.", in.Email))
	case errors.Is(err, store.ErrDuplicateAPIKey):
		return nil, conflict("API key already exists. Please provide a different one.")
	case err != nil:
		return nil, s.storageFailure("register user", err)
	}

	s.logger.Info("registered user", "user_id", user.ID, "role", user.Role)
	return &Registration{User: user, APIKey: key}, nil
}

// RevokeUser clears the target user's key fingerprint. Only admins may call
// it, and never on themselves.
func (s *Service) RevokeUser(ctx context.Context, caller auth.Identity, in RevokeInput) (*store.User, error) {
	if !caller.IsAdmin {
		return nil, ErrRevokeForbidden
	}
	switch {
	case in.UserID == "" && in.Email == "":
		return nil, validationError("Either user_id or email must be provided.")
	case in.UserID != "" && in.Email != "":
		return nil, validationError("Provide either user_id or email, not both.")
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	var target *store.User
	if in.UserID != "" {
		target, err = st.GetUser(ctx, in.UserID)
	} else {
		target, err = st.GetUserByEmail(ctx, in.Email)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("User not found.")
	}
	if err != nil {
		return nil, s.storageFailure("revoke user API key", err)
	}

	if target.ID == caller.UserID {
		return nil, forbidden("Cannot revoke your own API key.")
	}

	switch err := st.RevokeAPIKey(ctx, target.ID); {
	case errors.Is(err, store.ErrNotFound):
		return nil, notFound("User not found.")
	case err != nil:
		return nil, s.storageFailure("revoke user API key", err, "target_id", target.ID)
	}

	s.logger.Info("revoked user api key", "target_id", target.ID, "by", caller.UserID)
	target.APIKeyHash = nil
	return target, nil
}
