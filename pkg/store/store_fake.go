package store

import "sync"

// FakeStore keeps carts in memory
// It is used in tests and as the memory cart backend
type FakeStore struct {
	mux   sync.Mutex
	carts map[string][]CartEntry
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		carts: map[string][]CartEntry{},
	}
}

func (s *FakeStore) GetCart(session string) ([]CartEntry, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	entries := make([]CartEntry, len(s.carts[cartKey(session)]))
	copy(entries, s.carts[cartKey(session)])
	return entries, nil
}

func (s *FakeStore) SetCart(session string, entries []CartEntry) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	stored := make([]CartEntry, len(entries))
	copy(stored, entries)
	s.carts[cartKey(session)] = stored
	return nil
}

func (s *FakeStore) ClearCart(session string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	delete(s.carts, cartKey(session))
	return nil
}
