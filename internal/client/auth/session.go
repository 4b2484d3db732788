// Package auth tracks who is signed in. Identity comes from bearer tokens
// (HS256 JWTs) and is persisted in the local cache so it survives restarts.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/common"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

// SessionKey is the global cache key holding the persisted token.
const SessionKey = "session"

// Identity is an authenticated user.
type Identity struct {
	ID    string
	Email string
}

// Capability is what the stores need to know about authentication.
type Capability interface {
	// Identity returns the signed-in user, if any.
	Identity() (Identity, bool)
	// RemoteEnabled reports whether remote sync is configured and switched
	// on. Why it is off is deliberately not exposed.
	RemoteEnabled() bool
}

// Listener is notified after the identity changed. signedIn is false after
// sign-out.
type Listener func(ctx context.Context, id Identity, signedIn bool)

type persisted struct {
	Token string `json:"token"`
}

// Session is the token-backed Capability.
type Session struct {
	secret        []byte
	cache         *localstore.Adapter
	remoteEnabled bool
	log           logging.Logger

	mu        sync.Mutex
	current   Identity
	signedIn  bool
	listeners map[int]Listener
	nextID    int
}

var _ Capability = (*Session)(nil)

func NewSession(secret []byte, cache *localstore.Adapter, remoteEnabled bool, log logging.Logger) *Session {
	return &Session{
		secret:        secret,
		cache:         cache,
		remoteEnabled: remoteEnabled,
		log:           log,
		listeners:     map[int]Listener{},
	}
}

func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.signedIn
}

func (s *Session) RemoteEnabled() bool { return s.remoteEnabled }

// Subscribe registers l and returns a function that removes it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SignIn verifies token, makes its subject the current identity and
// persists the token. Listeners are notified only if the identity changed.
func (s *Session) SignIn(ctx context.Context, token string) (Identity, error) {
	id, err := ParseToken(token, s.secret)
	if err != nil {
		return Identity{}, err
	}
	if err := s.cache.SaveValue(ctx, SessionKey, persisted{Token: token}); err != nil {
		s.log.Warn(ctx, "session not persisted", "error", err)
	}
	s.set(ctx, id, true)
	return id, nil
}

// SignOut forgets the current identity and the persisted token.
func (s *Session) SignOut(ctx context.Context) error {
	if _, ok := s.Identity(); !ok {
		return common.ErrNoIdentity
	}
	if err := s.cache.Remove(ctx, SessionKey); err != nil {
		s.log.Warn(ctx, "persisted session not removed", "error", err)
	}
	s.set(ctx, Identity{}, false)
	return nil
}

// Restore signs in with the persisted token, if there is a valid one.
// Expired or invalid tokens are discarded.
func (s *Session) Restore(ctx context.Context) (Identity, bool) {
	var p persisted
	if !localstore.LoadValue(ctx, s.cache, SessionKey, &p) || p.Token == "" {
		return Identity{}, false
	}

	id, err := ParseToken(p.Token, s.secret)
	if err != nil {
		level := s.log.Warn
		if errors.Is(err, common.ErrTokenExpired) {
			level = s.log.Info
		}
		level(ctx, "persisted session discarded", "error", err)
		_ = s.cache.Remove(ctx, SessionKey)
		return Identity{}, false
	}

	s.set(ctx, id, true)
	return id, true
}

func (s *Session) set(ctx context.Context, id Identity, signedIn bool) {
	s.mu.Lock()
	changed := s.signedIn != signedIn || s.current != id
	s.current, s.signedIn = id, signedIn
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, l := range listeners {
		l(ctx, id, signedIn)
	}
}
