package session

import "sync"

// Identity is the cached administrator identity of a session.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Snapshot is the persisted form of a Session.
type Snapshot struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Session holds the remote API bearer token and the identity it belongs to.
// It is populated at login and cleared at logout; the API client reads the
// token from it on every request.
type Session struct {
	mu       sync.RWMutex
	token    string
	identity Identity
}

func New() *Session {
	return &Session{}
}

// Restore rebuilds a session from a persisted snapshot.
func Restore(snap Snapshot) *Session {
	return &Session{token: snap.Token, identity: snap.Identity}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the cached identity and whether the session is signed in.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.token != ""
}

func (s *Session) Set(token string, identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = identity
}

// SetIdentity replaces the cached identity, keeping the token.
func (s *Session) SetIdentity(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = Identity{}
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, Identity: s.identity}
}
