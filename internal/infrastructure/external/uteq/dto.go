// Package uteq implements the UTEQ schedule backend API client. It owns the
// wire contract: JSON request/response shapes, bearer-token decoration, and
// the classification of backend failures into the engine's error taxonomy.
package uteq

// LoginRequestDTO is the body of POST /users/login.
type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequestDTO is the body of POST /users/register. The password is
// hashed by the caller before it reaches this type; the backend never sees
// clear-text credential material from this client.
type RegisterRequestDTO struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	FullName     string `json:"fullName"`
}

// AuthResponseDTO is the answer of both auth endpoints: either an access
// token (optionally with the user embedded) or an error message.
type AuthResponseDTO struct {
	AccessToken string   `json:"access_token,omitempty"`
	User        *UserDTO `json:"user,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// UserDTO is the backend's user record as returned by GET /users/email/{email}.
// PasswordHash is part of the wire shape but is stripped by the mapper and
// never persisted locally.
type UserDTO struct {
	ID           string `json:"id,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Error        string `json:"error,omitempty"`
}

// GroupDTO is one schedule group as returned by GET /horarios.
type GroupDTO struct {
	ID        string       `json:"id"`
	GroupName string       `json:"nombregrupo"`
	Data      []SessionDTO `json:"data"`
}

// SessionDTO is one class session inside a group's data array.
type SessionDTO struct {
	Start     string `json:"start"`
	Subject   string `json:"subj"`
	Professor string `json:"prof"`
	Room      string `json:"room"`
}
