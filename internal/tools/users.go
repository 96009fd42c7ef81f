// ABOUTME: Admin tools: register_user and revoke_user
// ABOUTME: The raw API key is returned once at registration and never stored

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/calorie-gateway/internal/auth"
	"github.com/2389/calorie-gateway/internal/tracker"
)

const (
	registerUserSchema = `{"type":"object","properties":{` +
		`"email":{"type":"string","format":"email","description":"Email address of the new user"},` +
		`"name":{"type":"string","minLength":1,"description":"Full name of the new user"},` +
		`"api_key":{"type":"string","minLength":1,"description":"API key to assign (generated when omitted)"}},` +
		`"required":["email","name"]}`

	revokeUserSchema = `{"type":"object","properties":{` +
		`"user_id":{"type":"string","minLength":1,"description":"ID of the user to revoke"},` +
		`"email":{"type":"string","format":"email","description":"Email of the user to revoke"}}}`
)

type registerUserParams struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"name" validate:"required"`
	APIKey *string `json:"api_key" validate:"omitnil,min=1"`
}

func (h *handlers) registerUser(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	if !id.IsAdmin {
		return h.fail("register_user", tracker.ErrRegisterForbidden)
	}
	var p registerUserParams
	if err := decode(input, &p); err != nil {
		return h.fail("register_user", err)
	}

	reg, err := h.svc.RegisterUser(ctx, id, tracker.RegisterInput{
		Name:   p.Name,
		Email:  p.Email,
		APIKey: deref(p.APIKey),
	})
	if err != nil {
		return h.fail("register_user", err)
	}
	return textResult(fmt.Sprintf("Successfully registered user \"%s\" with ID %s.\nAPI Key: %s\nEmail: %s",
		reg.User.Name, reg.User.ID, reg.APIKey, reg.User.Email))
}

type revokeUserParams struct {
	UserID *string `json:"user_id" validate:"omitnil,min=1"`
	Email  *string `json:"email" validate:"omitnil,email"`
}

func (h *handlers) revokeUser(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	if !id.IsAdmin {
		return h.fail("revoke_user", tracker.ErrRevokeForbidden)
	}
	var p revokeUserParams
	if err := decode(input, &p); err != nil {
		return h.fail("revoke_user", err)
	}

	user, err := h.svc.RevokeUser(ctx, id, tracker.RevokeInput{
		UserID: deref(p.UserID),
		Email:  deref(p.Email),
	})
	if err != nil {
		return h.fail("revoke_user", err)
	}
	return textResult(fmt.Sprintf("Successfully revoked API key for user \"%s\" (%s). User ID: %s",
		user.Name, user.Email, user.ID))
}
