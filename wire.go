package warebase

import "time"

// Version is reported by the status endpoint.
const Version = "0.3.1"

// ServiceStatus is the descriptor the IAM service publishes for other
// services. Scheme is the Authorization header scheme tokens must use.
type ServiceStatus struct {
	Message string `json:"message"`
	Service string `json:"service"`
	Version string `json:"version"`
	Scheme  string `json:"scheme"`
}

// AuthenticatedUser is the identity payload exchanged on /authenticate.
// ID is always serialized as a string so callers never have to cope with
// a storage-native key type.
type AuthenticatedUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthenticatedToken mirrors the stored token row, minus nothing: the
// caller presented the key already.
type AuthenticatedToken struct {
	Key       string    `json:"key"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthenticateResponse is the service-to-service contract returned by
// POST /api/v1/iam/authenticate.
type AuthenticateResponse struct {
	Message string             `json:"message"`
	User    AuthenticatedUser  `json:"user"`
	Token   AuthenticatedToken `json:"token"`
}
