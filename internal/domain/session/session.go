// Package session contains the authenticated user context: the locally
// persisted bearer token and the secret-free user profile.
package session

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Store.Load when no session is persisted.
var ErrNotFound = errors.New("session: not found")

// ProfileSource names how the profile was obtained, so consumers cannot
// confuse a full backend profile with the degraded fallback.
type ProfileSource string

const (
	// ProfileKnown means the profile came from the backend user record.
	ProfileKnown ProfileSource = "known"

	// ProfileMinimal means the profile lookup failed and only the email
	// from the credentials is known.
	ProfileMinimal ProfileSource = "minimal"
)

// Profile holds the user-visible identity fields. It must never contain
// credential secrets; the ingestion mapper strips the backend's password
// hash field before a profile reaches this type.
type Profile struct {
	FullName string        `json:"full_name,omitempty"`
	Email    string        `json:"email"`
	Source   ProfileSource `json:"source"`
}

// Minimal builds the degraded fallback profile carrying only the email.
func Minimal(email string) Profile {
	return Profile{Email: email, Source: ProfileMinimal}
}

// DisplayName returns the best available name for greeting the user.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return p.Email
}

// Session is the authenticated user context persisted across restarts.
type Session struct {
	// Token is the opaque bearer credential, write-once per login.
	Token string `json:"token"`

	// Profile is the secret-free user profile.
	Profile Profile `json:"profile"`
}

// Store persists the session atomically: Load observes either a complete
// session or the previous one, never a token without its profile.
type Store interface {
	// Save persists the session, replacing any previous one.
	Save(ctx context.Context, s Session) error

	// Load returns the persisted session, or ErrNotFound when absent.
	Load(ctx context.Context) (Session, error)

	// Clear removes the session unconditionally. Clearing an absent
	// session is a no-op, not an error.
	Clear(ctx context.Context) error
}
