package state

import (
	"sync"
	"time"

	"github.com/five82/storefront/internal/api"
)

// Resource identifies a server collection that is refetched wholesale.
type Resource int

const (
	ResourceProducts Resource = iota
	ResourceBasket
	resourceCount
)

// Store coordinates concurrent updates to the snapshot and notifies
// subscribers after every change.
//
// Overlapping fetches of the same resource resolve as last request wins:
// a response whose request was issued before the one already applied is
// dropped rather than overwriting newer data. A failure older than the
// applied response is dropped the same way. The op still finishes.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	pending  [opCount]int

	// Fetch tickets per resource. A response is applied only when its
	// ticket is newer than the last applied one.
	issued  [resourceCount]uint64
	applied [resourceCount]uint64

	subs    map[int]chan Snapshot
	nextSub int
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.clone()
}

// Subscribe registers for snapshot updates. The channel holds at most one
// pending snapshot; slow readers only ever see the latest one. The returned
// func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]chan Snapshot)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Begin marks op in flight and clears its previous error.
func (s *Store) Begin(op Op) {
	s.mutate(func() {
		s.pending[op]++
		s.snapshot.Status[op] = OpStatus{InFlight: true}
	})
}

// Finish releases one in-flight slot of op. The error, if any, is kept.
func (s *Store) Finish(op Op) {
	s.mutate(func() {
		if s.pending[op] > 0 {
			s.pending[op]--
		}
		s.snapshot.Status[op].InFlight = s.pending[op] > 0
	})
}

// Fail records a user-facing error for op without touching data.
func (s *Store) Fail(op Op, msg string) {
	s.mutate(func() {
		s.snapshot.Status[op].Err = msg
	})
}

// ClearError drops the recorded error for op, if any.
func (s *Store) ClearError(op Op) {
	s.mutate(func() {
		s.snapshot.Status[op].Err = ""
	})
}

// Ticket issues the next fetch ticket for a resource.
func (s *Store) Ticket(r Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[r]++
	return s.issued[r]
}

// ApplyProducts replaces the product list if ticket is still current.
// It reports whether the response was applied.
func (s *Store) ApplyProducts(ticket uint64, products []api.Product) bool {
	return s.apply(ResourceProducts, OpProducts, ticket, func() {
		s.snapshot.Products = cloneSlice(products)
	})
}

// ApplyBasket replaces the basket if ticket is still current.
func (s *Store) ApplyBasket(ticket uint64, basket []api.BasketItem) bool {
	return s.apply(ResourceBasket, OpBasket, ticket, func() {
		s.snapshot.Basket = cloneSlice(basket)
	})
}

// FailFetch records a fetch error unless a newer fetch already landed.
func (s *Store) FailFetch(r Resource, ticket uint64, msg string) bool {
	op := fetchOp(r)
	applied := false
	s.mutate(func() {
		if ticket < s.applied[r] {
			return
		}
		s.snapshot.Status[op].Err = msg
		applied = true
	})
	return applied
}

// UpdateDialogs applies fn to the dialog state.
func (s *Store) UpdateDialogs(fn func(*Dialogs)) {
	s.mutate(func() {
		fn(&s.snapshot.Dialogs)
	})
}

func (s *Store) apply(r Resource, op Op, ticket uint64, replace func()) bool {
	applied := false
	s.mutate(func() {
		if ticket <= s.applied[r] {
			return
		}
		s.applied[r] = ticket
		replace()
		s.snapshot.Status[op].Err = ""
		s.snapshot.LastUpdated = time.Now()
		applied = true
	})
	return applied
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.snapshot.Version++
	s.publishLocked()
}

func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot.clone()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale pending snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func fetchOp(r Resource) Op {
	if r == ResourceBasket {
		return OpBasket
	}
	return OpProducts
}
