package conversation

import (
	"fmt"
	"sync"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

// Store owns every State keyed by (user, session). Mutations for one
// conversation are serialized through Mutate so two callers cannot interleave
// updates on the same key.
type Store struct {
	mu     sync.RWMutex
	states map[string]*State
	// conversation id -> store key
	index map[string]string
	locks map[string]*sync.Mutex
}

func NewStore(_ *do.Injector) (*Store, error) {
	return &Store{
		states: make(map[string]*State),
		index:  make(map[string]string),
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func storeKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

func (s *Store) GetOrCreate(userID, sessionID string) *State {
	key := storeKey(userID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[key]; ok {
		return state
	}

	state := NewState(userID, sessionID)
	s.states[key] = state
	s.index[state.ConversationID] = key

	return state
}

func (s *Store) GetByID(conversationID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.index[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation %q not found", conversationID)
	}

	return s.states[key], nil
}

func (s *Store) Save(state *State) {
	key := storeKey(state.UserID, state.SessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[key] = state
	s.index[state.ConversationID] = key
}

// Mutate runs fn under the conversation's own lock. All writes to a State
// after creation go through here.
func (s *Store) Mutate(conversationID string, fn func(state *State) error) error {
	state, err := s.GetByID(conversationID)
	if err != nil {
		return err
	}

	lock := s.keyLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	return fn(state)
}

// ListActive returns the user's conversations that have not expired.
func (s *Store) ListActive(userID string) []*State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*State, 0, len(s.states))
	for _, state := range s.states {
		all = append(all, state)
	}

	return pie.Filter(all, func(state *State) bool {
		return state.UserID == userID && !state.IsExpired()
	})
}

func (s *Store) keyLock(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}

	return lock
}
