package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-go/internal/service/workspace"
	"github.com/go-chi/jwtauth/v5"
)

type workspaceKey struct{}

// WorkspaceProvider resolves a dashboard session id to its workspace.
type WorkspaceProvider interface {
	Get(ctx context.Context, id string) (*workspace.Workspace, error)
}

// LoadWorkspace puts the workspace of the verified session into the request context.
// Must run after AuthRequired.
func LoadWorkspace(provider WorkspaceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			sessionID, err := jwt.SessionID(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ws, err := provider.Get(r.Context(), sessionID)
			if err != nil {
				slog.Info("Dashboard session rejected", "session_id", sessionID, "error", err)
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// WorkspaceFromContext returns the workspace set by LoadWorkspace.
func WorkspaceFromContext(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*workspace.Workspace)
	return ws, ok && ws != nil
}
