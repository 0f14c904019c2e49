package repo

import (
	"context"
	"errors"

	"github.com/habitflow/userhub/internal/domain/user"
	"github.com/habitflow/userhub/internal/observability"
)

// InstrumentedStore decorates a UserStore with per-operation metrics.
type InstrumentedStore struct {
	next UserStore
	prom *observability.Prom
}

func WithMetrics(next UserStore, prom *observability.Prom) *InstrumentedStore {
	return &InstrumentedStore{next: next, prom: prom}
}

func (s *InstrumentedStore) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	var opErr error

	_ = s.prom.ObserveStore("list", func() error {
		users, opErr = s.next.List(ctx)
		return opErr
	})

	return users, opErr
}

func (s *InstrumentedStore) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var opErr error

	_ = s.prom.ObserveStore("find_by_email", func() error {
		u, opErr = s.next.FindByEmail(ctx, email)

		// absence is a normal outcome, not a store failure
		if errors.Is(opErr, user.ErrNotFound) {
			return nil
		}

		return opErr
	})

	return u, opErr
}

func (s *InstrumentedStore) Insert(ctx context.Context, u user.User) error {
	return s.prom.ObserveStore("insert", func() error {
		return s.next.Insert(ctx, u)
	})
}

func (s *InstrumentedStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	var removed bool
	var opErr error

	_ = s.prom.ObserveStore("delete_by_id", func() error {
		removed, opErr = s.next.DeleteByID(ctx, id)
		return opErr
	})

	return removed, opErr
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
