// Package application drives the engine's flows: the login/registration +
// schedule-sync state machine on the write side, and the derived schedule
// views on the read side.
package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

// State is the orchestrator's position in the auth/sync cycle.
type State int

const (
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated State = iota
	// StateAuthenticating means credentials are in flight.
	StateAuthenticating
	// StateAuthenticated means a session is persisted but schedules are
	// not yet synced in this cycle.
	StateAuthenticated
	// StateSyncingSchedule means the schedule fetch is in flight.
	StateSyncingSchedule
	// StateReady means the cycle finished; the cache holds whatever the
	// last successful sync produced.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateSyncingSchedule:
		return "syncing_schedule"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// BackendClient is what the orchestrator needs from the API client. The
// concrete implementation lives in infrastructure/external/uteq.
type BackendClient interface {
	// Login exchanges credentials for a bearer token, optionally with the
	// profile embedded in the auth response.
	Login(ctx context.Context, email, password string) (token string, profile *session.Profile, err error)

	// Register creates an account; the password arrives pre-hashed.
	Register(ctx context.Context, email, passwordHash, fullName string) (token string, profile *session.Profile, err error)

	// FetchProfile looks up the secret-free profile by email.
	FetchProfile(ctx context.Context, email string) (session.Profile, error)

	// FetchSchedules retrieves the full schedule collection.
	FetchSchedules(ctx context.Context) ([]schedule.Group, error)
}

// Result describes a finished auth cycle.
type Result struct {
	// State is the terminal state, StateReady on success.
	State State

	// Session is the persisted session.
	Session session.Session

	// Groups is the number of groups the sync wrote to the cache; zero
	// when the sync failed or returned nothing.
	Groups int

	// SyncErr is the swallowed schedule-sync failure, nil when the sync
	// succeeded. Authentication stands either way.
	SyncErr error
}

// Orchestrator drives login/registration and the follow-up schedule sync,
// writing results into the session store and schedule cache. User-initiated
// actions are serialized by the calling layer; the orchestrator assumes no
// concurrent writers.
type Orchestrator struct {
	client    BackendClient
	sessions  session.Store
	schedules schedule.Cache
	log       *logger.Logger
	state     State
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
func NewOrchestrator(client BackendClient, sessions session.Store, schedules schedule.Cache, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Default()
	}
	return &Orchestrator{
		client:    client,
		sessions:  sessions,
		schedules: schedules,
		log:       log.With(logger.Component("orchestrator")),
		state:     StateUnauthenticated,
	}
}

// State returns the position reached by the most recent flow.
func (o *Orchestrator) State() State {
	return o.state
}

// IsAuthenticated reports whether a session is persisted. The session store
// is the single source of truth for this question.
func (o *Orchestrator) IsAuthenticated(ctx context.Context) bool {
	_, err := o.sessions.Load(ctx)
	return err == nil
}

// Login authenticates with email and password, persists the session, and
// syncs schedules. A sync failure is non-fatal and reported via
// Result.SyncErr; an authentication failure returns the orchestrator to
// Unauthenticated with no partial session writes.
func (o *Orchestrator) Login(ctx context.Context, email, password string) (Result, error) {
	return o.run(ctx, email, func(ctx context.Context) (string, *session.Profile, error) {
		return o.client.Login(ctx, email, password)
	})
}

// Register creates an account and then behaves exactly like Login. The
// password is bcrypt-hashed here so clear-text credential material never
// reaches the wire layer.
func (o *Orchestrator) Register(ctx context.Context, email, password, fullName string) (Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Result{State: StateUnauthenticated}, fmt.Errorf("hash password: %w", err)
	}
	return o.run(ctx, email, func(ctx context.Context) (string, *session.Profile, error) {
		return o.client.Register(ctx, email, string(hash), fullName)
	})
}

// SyncSchedules refreshes the schedule cache from the backend. Unlike the
// swallowed sync inside a login cycle, a standalone refresh reports its
// failure to the caller, who owns any retry policy.
func (o *Orchestrator) SyncSchedules(ctx context.Context) ([]schedule.Group, error) {
	groups, err := o.client.FetchSchedules(ctx)
	if err != nil {
		return nil, err
	}
	if err := o.schedules.Replace(ctx, groups); err != nil {
		return nil, fmt.Errorf("replace schedule cache: %w", err)
	}
	o.log.Info("schedule cache replaced", logger.Int("groups", len(groups)))
	return groups, nil
}

// Logout clears the persisted session. Idempotent.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.state = StateUnauthenticated
	return o.sessions.Clear(ctx)
}

type authFunc func(ctx context.Context) (string, *session.Profile, error)

func (o *Orchestrator) run(ctx context.Context, email string, auth authFunc) (Result, error) {
	o.state = StateAuthenticating

	token, profile, err := auth(ctx)
	if err != nil {
		o.state = StateUnauthenticated
		return Result{State: o.state}, err
	}
	if token == "" {
		// Defensive double-check; the client already classifies this.
		o.state = StateUnauthenticated
		return Result{State: o.state}, errors.New("authentication returned an empty token")
	}

	sess := session.Session{
		Token:   token,
		Profile: o.resolveProfile(ctx, email, profile),
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		o.state = StateUnauthenticated
		return Result{State: o.state}, fmt.Errorf("persist session: %w", err)
	}
	o.state = StateAuthenticated
	o.log.Info("session persisted",
		logger.Email(email),
		logger.String("profile_source", string(sess.Profile.Source)),
	)

	res := Result{Session: sess}
	o.state = StateSyncingSchedule
	groups, syncErr := o.SyncSchedules(ctx)
	if syncErr != nil {
		// Non-fatal: authentication stands, the cache keeps its previous
		// contents, and schedules can refresh later.
		o.log.Warn("schedule sync failed, keeping previous cache", logger.Err(syncErr))
		res.SyncErr = syncErr
	} else {
		res.Groups = len(groups)
	}

	o.state = StateReady
	res.State = o.state
	return res, nil
}

// resolveProfile picks the best available profile: embedded in the auth
// response, fetched from the backend, or the minimal {email} fallback.
// Profile population failure never blocks authentication success.
func (o *Orchestrator) resolveProfile(ctx context.Context, email string, embedded *session.Profile) session.Profile {
	if embedded != nil {
		return *embedded
	}
	profile, err := o.client.FetchProfile(ctx, email)
	if err != nil {
		o.log.Warn("profile lookup failed, using minimal profile",
			logger.Email(email),
			logger.Err(err),
		)
		return session.Minimal(email)
	}
	return profile
}
