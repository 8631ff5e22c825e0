package uteq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

// Config contains configuration for the backend API client.
type Config struct {
	// BaseURL is the backend host, e.g. "http://192.168.1.66:3000".
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultConfig returns sensible defaults for the given base URL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// Client issues HTTP requests against the UTEQ schedule backend. Every
// request runs through the same middleware chain: correlation id, bearer
// token attach, and session invalidation on authorization failure.
type Client struct {
	config Config
	exec   RequestFunc
	mapper *Mapper
	log    *logger.Logger
}

// NewClient creates a Client bound to the given session store. The store is
// both read (token attach) and written (invalidation on auth failure).
func NewClient(cfg Config, store session.Store) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	log := cfg.Logger.With(logger.Component("uteq_client"))

	httpClient := &http.Client{Timeout: cfg.Timeout}
	base := func(req *http.Request) (*http.Response, error) {
		return httpClient.Do(req)
	}

	return &Client{
		config: cfg,
		exec: Chain(base,
			CorrelationID(),
			AttachToken(store, log),
			InvalidateOnAuthFailure(store, log),
		),
		mapper: NewMapper(),
		log:    log,
	}
}

// Login authenticates with email and password. On success it returns the
// bearer token and, when the backend embeds it, the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, *session.Profile, error) {
	return c.postAuth(ctx, "/users/login", LoginRequestDTO{
		Email:    email,
		Password: password,
	})
}

// Register creates an account. The caller supplies the already-hashed
// password; the response shape matches Login.
func (c *Client) Register(ctx context.Context, email, passwordHash, fullName string) (string, *session.Profile, error) {
	return c.postAuth(ctx, "/users/register", RegisterRequestDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
	})
}

// FetchProfile looks up the user record by email and returns the secret-free
// profile.
func (c *Client) FetchProfile(ctx context.Context, email string) (session.Profile, error) {
	var dto UserDTO
	path := "/users/email/" + url.PathEscape(email)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return session.Profile{}, err
	}
	if dto.Error != "" {
		return session.Profile{}, transportErrf("fetch profile", "backend error: %s", dto.Error)
	}
	return c.mapper.ProfileFromUser(dto), nil
}

// FetchSchedules retrieves the entire schedule collection. The backend has
// no incremental fetch; the caller replaces its cache wholesale.
func (c *Client) FetchSchedules(ctx context.Context) ([]schedule.Group, error) {
	var dtos []GroupDTO
	if err := c.doJSON(ctx, http.MethodGet, "/horarios", nil, &dtos); err != nil {
		return nil, err
	}

	groups, err := c.mapper.GroupsFromDTO(dtos)
	if err != nil {
		return nil, transportErr("fetch schedules", err)
	}
	c.log.Debug("fetched schedule collection", logger.Int("groups", len(groups)))
	return groups, nil
}

func (c *Client) postAuth(ctx context.Context, path string, body any) (string, *session.Profile, error) {
	var dto AuthResponseDTO
	if err := c.doJSON(ctx, http.MethodPost, path, body, &dto); err != nil {
		return "", nil, err
	}
	if dto.Error != "" {
		return "", nil, &CredentialError{Message: dto.Error}
	}
	if dto.AccessToken == "" {
		return "", nil, &CredentialError{Message: "no access token in response"}
	}

	var profile *session.Profile
	if dto.User != nil {
		p := c.mapper.ProfileFromUser(*dto.User)
		profile = &p
	}
	return dto.AccessToken, profile, nil
}

// doJSON executes one request through the middleware chain and decodes the
// JSON answer. Authorization expiry surfaces as ErrAuthExpired (the
// middleware has already cleared the session); every other failure is
// classified as credential or transport.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return transportErr(op, fmt.Errorf("marshal body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return transportErr(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.exec(req)
	if err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return err
		}
		return transportErr(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(op, fmt.Errorf("read response: %w", err))
	}
	c.log.Debug("backend request",
		logger.Operation(op),
		logger.Int("status", resp.StatusCode),
		logger.Latency(time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Error != "" {
			if resp.StatusCode < 500 {
				return &CredentialError{Message: apiErr.Error}
			}
			return transportErrf(op, "status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return transportErrf(op, "unexpected status %d", resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return transportErr(op, fmt.Errorf("unmarshal response: %w", err))
		}
	}
	return nil
}
