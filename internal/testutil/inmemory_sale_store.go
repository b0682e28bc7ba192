package testutil

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/storepulse/storepulse/internal/domain/sale"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
)

// InMemorySaleStore implements sale.Repository. PingErr, ListErr and
// BoundsErr inject failures; every List filter is recorded.
type InMemorySaleStore struct {
	*InMemoryStore[*sale.Sale]

	PingErr   error
	ListErr   error
	BoundsErr error

	mu      sync.Mutex
	filters []types.SaleFilter
}

func NewInMemorySaleStore() *InMemorySaleStore {
	return &InMemorySaleStore{
		InMemoryStore: NewInMemoryStore[*sale.Sale](),
	}
}

func copySale(s *sale.Sale) *sale.Sale {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Items = lo.Map(s.Items, func(item *sale.Item, _ int) *sale.Item {
		if item == nil {
			return nil
		}
		c := *item
		if item.Product != nil {
			p := *item.Product
			c.Product = &p
		}
		return &c
	})
	return &copied
}

// Add stores sales, failing on duplicate ids.
func (s *InMemorySaleStore) Add(ctx context.Context, sales ...*sale.Sale) error {
	for _, sl := range sales {
		if sl == nil {
			return ierr.NewError("sale cannot be nil").
				WithHint("Sale cannot be nil").
				Mark(ierr.ErrValidation)
		}
		if err := s.InMemoryStore.Create(ctx, sl.ID, copySale(sl)); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySaleStore) Ping(_ context.Context) error {
	if s.PingErr != nil {
		return ierr.WithError(s.PingErr).
			WithHint("Sales database is not reachable").
			Mark(ierr.ErrConnectivity)
	}
	return nil
}

func (s *InMemorySaleStore) List(ctx context.Context, filter *types.SaleFilter) ([]*sale.Sale, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.filters = append(s.filters, *filter)
	s.mu.Unlock()

	if s.ListErr != nil {
		return nil, ierr.WithError(s.ListErr).
			WithHint("Failed to list sales").
			Mark(ierr.ErrDatabase)
	}

	sales, err := s.InMemoryStore.List(ctx, filter, saleFilterFn, saleSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(sales, func(sl *sale.Sale, _ int) *sale.Sale {
		return copySale(sl)
	}), nil
}

func (s *InMemorySaleStore) GetTimeBounds(ctx context.Context, userID string) (*sale.TimeBounds, error) {
	if s.BoundsErr != nil {
		return nil, ierr.WithError(s.BoundsErr).
			WithHint("Failed to read sale time bounds").
			Mark(ierr.ErrDatabase)
	}

	sales, err := s.InMemoryStore.List(ctx, &types.SaleFilter{UserID: userID}, saleFilterFn, saleSortFn)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return &sale.TimeBounds{}, nil
	}
	return &sale.TimeBounds{
		Oldest: sales[0].CreatedAt,
		Newest: sales[len(sales)-1].CreatedAt,
	}, nil
}

// Filters returns the filters passed to List so far.
func (s *InMemorySaleStore) Filters() []types.SaleFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.SaleFilter(nil), s.filters...)
}

// LastFilter returns the most recent List filter, or nil.
func (s *InMemorySaleStore) LastFilter() *types.SaleFilter {
	filters := s.Filters()
	if len(filters) == 0 {
		return nil
	}
	return &filters[len(filters)-1]
}

func (s *InMemorySaleStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	s.filters = nil
	s.mu.Unlock()
}

func saleFilterFn(_ context.Context, sl *sale.Sale, filter interface{}) bool {
	f, ok := filter.(*types.SaleFilter)
	if !ok {
		return true
	}
	return f.Matches(sl.CreatedAt, sl.UserID)
}

func saleSortFn(i, j *sale.Sale) bool {
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.Before(j.CreatedAt)
	}
	return i.ID < j.ID
}

var _ sale.Repository = (*InMemorySaleStore)(nil)
