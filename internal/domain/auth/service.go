package auth

import "context"

// AuthService signs administrators in against the remote API and manages their dashboard sessions.
type AuthService interface {
	// Login authenticates with the remote API and opens a dashboard session
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Logout clears the session and forgets its workspace
	Logout(ctx context.Context, sessionID string) error

	// Me refreshes the cached identity from the remote API
	Me(ctx context.Context, sessionID string) (Admin, error)
}
