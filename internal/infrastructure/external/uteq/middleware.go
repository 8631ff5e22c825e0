package uteq

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

// RequestFunc executes one HTTP request. The innermost RequestFunc is the
// actual transport call; middleware wrap it.
type RequestFunc func(req *http.Request) (*http.Response, error)

// Middleware decorates a RequestFunc. Every request the client issues passes
// through the same chain, composed explicitly in NewClient.
type Middleware func(next RequestFunc) RequestFunc

// Chain wraps base with the given middleware; the first middleware listed
// becomes the outermost layer.
func Chain(base RequestFunc, mws ...Middleware) RequestFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// CorrelationID stamps every outgoing request with a fresh request id for
// log correlation.
func CorrelationID() Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				req.Header.Set("X-Request-ID", uuid.NewString())
			}
			return next(req)
		}
	}
}

// AttachToken decorates outgoing requests with the stored bearer token when
// a session exists. Storage read failures are logged and the request
// proceeds unauthenticated rather than failing outright.
func AttachToken(store session.Store, log *logger.Logger) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(req *http.Request) (*http.Response, error) {
			sess, err := store.Load(req.Context())
			switch {
			case errors.Is(err, session.ErrNotFound):
				// Anonymous request; auth endpoints work without a token.
			case err != nil:
				log.Warn("reading session for token attach failed", logger.Err(err))
			default:
				req.Header.Set("Authorization", "Bearer "+sess.Token)
			}
			return next(req)
		}
	}
}

// InvalidateOnAuthFailure clears the session store when the backend rejects
// the bearer token this request carried. The clear completes before control
// returns to the caller, so a subsequent Load already observes the absent
// session. A 401 on a request that carried no token is left for ordinary
// status handling; that is a credential problem, not an expired session.
func InvalidateOnAuthFailure(store session.Store, log *logger.Logger) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(req *http.Request) (*http.Response, error) {
			hadBearer := strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ")

			resp, err := next(req)
			if err != nil || !hadBearer {
				return resp, err
			}
			if resp.StatusCode != http.StatusUnauthorized {
				return resp, nil
			}

			resp.Body.Close()
			log.Info("bearer token rejected, clearing session",
				logger.F("path", req.URL.Path),
			)
			if clearErr := store.Clear(req.Context()); clearErr != nil {
				log.Error("clearing session after auth failure failed", logger.Err(clearErr))
				return nil, errors.Join(ErrAuthExpired, clearErr)
			}
			return nil, ErrAuthExpired
		}
	}
}
