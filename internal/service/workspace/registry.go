package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/observability"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/session"
	attendancesvc "github.com/cmlabs-hris/hris-admin-go/internal/service/attendance"
	"github.com/google/uuid"
)

// NotifierFactory binds view notifications to a dashboard session.
type NotifierFactory interface {
	Notifier(sessionID string) attendancesvc.Notifier
}

// NotifierFactoryFunc adapts a function to NotifierFactory.
type NotifierFactoryFunc func(sessionID string) attendancesvc.Notifier

func (f NotifierFactoryFunc) Notifier(sessionID string) attendancesvc.Notifier {
	return f(sessionID)
}

// Workspace is everything the dashboard keeps for one signed-in administrator.
type Workspace struct {
	ID         string
	Session    *session.Session
	Client     *apiclient.Client
	Attendance *attendancesvc.Controller
	ExpiresAt  time.Time
}

// Registry owns the live workspaces. Workspaces missing from memory are
// rebuilt from the session repository, so a restart keeps admins signed in.
type Registry struct {
	repo      session.Repository
	client    *apiclient.Client
	notifiers NotifierFactory
	loc       *time.Location
	ttl       time.Duration
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(repo session.Repository, client *apiclient.Client, notifiers NotifierFactory, loc *time.Location, ttl time.Duration) *Registry {
	return &Registry{
		repo:       repo,
		client:     client,
		notifiers:  notifiers,
		loc:        loc,
		ttl:        ttl,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Create stores sess under a fresh session id and returns its workspace.
func (r *Registry) Create(ctx context.Context, sess *session.Session) (*Workspace, error) {
	id := uuid.NewString()
	expiresAt := r.now().Add(r.ttl)

	if err := r.repo.Save(ctx, session.Record{ID: id, Snapshot: sess.Snapshot(), ExpiresAt: expiresAt}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	ws := r.build(id, sess, expiresAt)

	r.mu.Lock()
	r.workspaces[id] = ws
	r.mu.Unlock()

	slog.Info("Workspace created", "session_id", id, "expires_at", expiresAt)
	return ws, nil
}

// Get returns the workspace of id, restoring it from the repository when needed.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, error) {
	now := r.now()

	r.mu.Lock()
	ws, ok := r.workspaces[id]
	if ok && !ws.ExpiresAt.After(now) {
		delete(r.workspaces, id)
		ok = false
	}
	r.mu.Unlock()
	if ok {
		return ws, nil
	}

	rec, err := r.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if rec.Expired(now) {
		return nil, auth.ErrSessionExpired
	}

	restored := r.build(rec.ID, session.Restore(rec.Snapshot), rec.ExpiresAt)

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it meanwhile.
	if existing, ok := r.workspaces[id]; ok {
		return existing, nil
	}
	r.workspaces[id] = restored
	slog.Info("Workspace restored", "session_id", id)
	return restored, nil
}

// Persist writes the current session state of ws back to the repository.
func (r *Registry) Persist(ctx context.Context, ws *Workspace) error {
	rec := session.Record{ID: ws.ID, Snapshot: ws.Session.Snapshot(), ExpiresAt: ws.ExpiresAt}
	if err := r.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Remove clears the session of id and forgets its workspace.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()

	if ok {
		ws.Session.Clear()
	}
	if err := r.repo.Delete(ctx, id); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired drops expired workspaces and their stored sessions.
func (r *Registry) PurgeExpired(ctx context.Context) error {
	now := r.now()

	r.mu.Lock()
	for id, ws := range r.workspaces {
		if !ws.ExpiresAt.After(now) {
			ws.Session.Clear()
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	n, err := r.repo.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	observability.RecordSessionsPurged(n)
	if n > 0 {
		slog.Info("Expired sessions purged", "count", n)
	}
	return nil
}

// Len returns the number of workspaces held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) build(id string, sess *session.Session, expiresAt time.Time) *Workspace {
	client := r.client.WithTokens(sess)

	var notifier attendancesvc.Notifier
	if r.notifiers != nil {
		notifier = r.notifiers.Notifier(id)
	}

	return &Workspace{
		ID:         id,
		Session:    sess,
		Client:     client,
		Attendance: attendancesvc.NewController(attendancesvc.NewReconciler(client, r.loc), client, notifier, r.loc),
		ExpiresAt:  expiresAt,
	}
}
