package domain

import "time"

// LoginOutcome classifies how a login request ended.
type LoginOutcome string

const (
	OutcomeSuccess            LoginOutcome = "success"
	OutcomeMissingCredentials LoginOutcome = "missing_credentials"
	OutcomeInvalidCredentials LoginOutcome = "invalid_credentials"
	OutcomeStoreUnavailable   LoginOutcome = "store_unavailable"
)

// LoginAttempt is an audit trail entry for one login request.
type LoginAttempt struct {
	Username string       `json:"username"`
	Outcome  LoginOutcome `json:"outcome"`
	Role     Role         `json:"role,omitempty"`
	RemoteIP string       `json:"remote_ip,omitempty"`
	At       time.Time    `json:"at"`
}

// NewAccount carries what is needed to seed a credential into a store.
// PasswordHash is a bcrypt hash, never the plain password.
type NewAccount struct {
	Role         Role
	Username     string
	Name         string
	PasswordHash string
}
