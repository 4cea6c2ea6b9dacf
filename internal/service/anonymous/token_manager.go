package anonymous

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

type tokenMeta struct {
	GuestID   string
	Kind      string
	ExpiresAt time.Time
}

type tokenManager struct {
	mu     sync.RWMutex
	tokens map[string]tokenMeta
	now    func() time.Time
}

func newTokenManager() *tokenManager {
	return &tokenManager{
		tokens: make(map[string]tokenMeta),
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(guestID, kind string, ttl time.Duration) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	meta := tokenMeta{
		GuestID:   guestID,
		Kind:      kind,
		ExpiresAt: m.now().Add(ttl),
	}
	m.mu.Lock()
	m.tokens[token] = meta
	m.mu.Unlock()
	return token, nil
}

func (m *tokenManager) Validate(token, kind string) (tokenMeta, bool) {
	m.mu.RLock()
	meta, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok || meta.Kind != kind {
		return tokenMeta{}, false
	}
	if m.now().After(meta.ExpiresAt) {
		m.mu.Lock()
		delete(m.tokens, token)
		m.mu.Unlock()
		return tokenMeta{}, false
	}
	return meta, true
}

// Revoke forgets token when it was issued to guestID.
func (m *tokenManager) Revoke(guestID, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta, ok := m.tokens[token]; ok && meta.GuestID == guestID {
		delete(m.tokens, token)
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
