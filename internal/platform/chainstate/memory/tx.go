package memory

import "context"

type txKey struct{}

// txState is the undo journal of one top-level transaction.
type txState struct {
	store *Store
	undo  []func()
}

func (tx *txState) record(step func()) {
	if tx == nil {
		return
	}
	tx.undo = append(tx.undo, step)
}

func (tx *txState) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// setEntry writes m[key] and journals the previous entry.
func setEntry[K comparable, V any](tx *txState, m map[K]V, key K, value V) {
	prev, existed := m[key]
	tx.record(func() {
		if existed {
			m[key] = prev
			return
		}
		delete(m, key)
	})
	m[key] = value
}

// setScalar writes *field and journals the previous value.
func setScalar[V any](tx *txState, field *V, value V) {
	prev := *field
	tx.record(func() { *field = prev })
	*field = value
}

// WithinTx runs fn while holding the store's write lock. Any error or panic
// from fn restores the state that existed before the call. Nested calls made
// with the transaction's context join it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.activeTx(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{store: s}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) activeTx(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx.store != s {
		return nil
	}
	return tx
}

func (s *Store) read(ctx context.Context, fn func()) {
	if s.activeTx(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write passes a nil journal outside transactions; the helpers treat that as
// an unjournaled write.
func (s *Store) write(ctx context.Context, fn func(tx *txState) error) error {
	if tx := s.activeTx(ctx); tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(nil)
}
