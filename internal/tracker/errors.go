// ABOUTME: Error taxonomy for tracker operations
// ABOUTME: Each error carries a Kind and a message safe to show to the caller

package tracker

import (
	"errors"
	"strings"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindStorage
)

// Error is returned by every Service operation that fails. Message is written
// for the API caller; Err holds the underlying cause and is never shown to them.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoProfile is returned by GetProfile when the user has not created a profile.
// It is an expected first-use state rather than a failure.
var ErrNoProfile = errors.New("no profile")

// ErrStorageUnavailable is returned when the service was built without a store.
var ErrStorageUnavailable = &Error{Kind: KindUnavailable, Message: "Database not available"}

// ErrRegisterForbidden and ErrRevokeForbidden reject non-admin callers of the
// user management operations.
var (
	ErrRegisterForbidden = forbidden("Admin access required to register new users.")
	ErrRevokeForbidden   = forbidden("Admin access required to revoke user API keys.")
)

// NoProfileMessage is the text shown to callers who have no profile yet.
const NoProfileMessage = "No profile found. Please create a profile first by updating your profile information."

// ProfilePrerequisiteMessage explains what is needed to create a profile.
const ProfilePrerequisiteMessage = "Profile not found. Please provide height_cm, age, and gender to create a new profile."

func validationError(problems ...string) *Error {
	return &Error{Kind: KindValidation, Message: strings.Join(problems, " ")}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}
