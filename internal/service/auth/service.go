package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/session"
	"github.com/cmlabs-hris/hris-admin-go/internal/service/workspace"
)

type AuthServiceImpl struct {
	client     *apiclient.Client
	workspaces *workspace.Registry
	jwt.Service
}

// NewAuthService creates the auth service. client must not carry a token source;
// it is only used for the login call.
func NewAuthService(client *apiclient.Client, workspaces *workspace.Registry, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		client:     client,
		workspaces: workspaces,
		Service:    jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	remote, err := a.client.Login(ctx, req)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if remote.Token == "" {
		return auth.LoginResponse{}, auth.ErrMissingToken
	}

	sess := session.New()
	sess.Set(remote.Token, identityOf(remote.Admin))

	ws, err := a.workspaces.Create(ctx, sess)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	accessToken, expiresAt, err := a.Service.GenerateSessionToken(ws.ID, remote.Admin.ID, remote.Admin.Email)
	if err != nil {
		_ = a.workspaces.Remove(ctx, ws.ID)
		return auth.LoginResponse{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	slog.Info("Admin signed in", "admin_id", remote.Admin.ID, "session_id", ws.ID)
	return auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Admin:       remote.Admin,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := a.workspaces.Remove(ctx, sessionID); err != nil {
		return err
	}
	slog.Info("Admin signed out", "session_id", sessionID)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, sessionID string) (auth.Admin, error) {
	ws, err := a.workspaces.Get(ctx, sessionID)
	if err != nil {
		return auth.Admin{}, err
	}

	admin, err := ws.Client.CurrentAdmin(ctx)
	if err != nil {
		// The remote token is no longer accepted; the dashboard session goes with it.
		if apiclient.IsStatus(err, http.StatusUnauthorized) {
			_ = a.workspaces.Remove(ctx, sessionID)
			return auth.Admin{}, auth.ErrInvalidToken
		}
		return auth.Admin{}, err
	}

	ws.Session.SetIdentity(identityOf(admin))
	if err := a.workspaces.Persist(ctx, ws); err != nil {
		slog.Warn("Failed to persist refreshed identity", "session_id", sessionID, "error", err)
	}
	return admin, nil
}

func identityOf(admin auth.Admin) session.Identity {
	return session.Identity{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}
}
