package transfer

import "sync"

// selection is a pending transfer recipient.
type selection struct {
	RecipientUsername string
	RecipientName     string
	AccountNumber     string
}

// sessionStore holds at most one pending selection per authenticated caller.
// Keying by caller identity keeps concurrent callers from overwriting each
// other's selections.
type sessionStore struct {
	mu      sync.Mutex
	pending map[string]selection
}

func newSessionStore() *sessionStore {
	return &sessionStore{pending: make(map[string]selection)}
}

// set replaces the caller's pending selection.
func (s *sessionStore) set(caller string, sel selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[caller] = sel
}

// get returns the caller's pending selection, if any.
func (s *sessionStore) get(caller string) (selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.pending[caller]
	return sel, ok
}

// clear drops the caller's pending selection.
func (s *sessionStore) clear(caller string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, caller)
}
