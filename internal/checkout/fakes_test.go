package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type memoryLedger struct {
	mu     sync.Mutex
	orders []domain.Order
	clock  time.Time
	err    error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{clock: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (l *memoryLedger) Create(_ context.Context, order *domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.clock = l.clock.Add(time.Second)
	order.ID = fmt.Sprintf("row-%d", len(l.orders)+1)
	order.CreatedAt = l.clock
	l.orders = append(l.orders, *order)
	return nil
}

func (l *memoryLedger) List(_ context.Context) ([]domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	out := make([]domain.Order, len(l.orders))
	copy(out, l.orders)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (l *memoryLedger) GetByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.orders {
		if o.OrderID == orderID {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeCart struct {
	entries int64
	err     error
	clears  int
}

func (c *fakeCart) Clear(ctx context.Context) (int64, error) {
	c.clears++
	if c.err != nil {
		return 0, c.err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := c.entries
	c.entries = 0
	return n, nil
}

type capturePublisher struct {
	keys   []string
	events []any
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

// cancelAfterCreate cancels the request context once the order is stored,
// like a client that disconnects right after the commit.
type cancelAfterCreate struct {
	*memoryLedger
	cancel context.CancelFunc
}

func (l cancelAfterCreate) Create(ctx context.Context, order *domain.Order) error {
	err := l.memoryLedger.Create(ctx, order)
	l.cancel()
	return err
}

// orderRecorder notes whether the cart was already cleared when the event
// was published.
type orderRecorder struct {
	cart            *fakeCart
	clearsAtPublish []int
}

func (r *orderRecorder) Publish(_ context.Context, _ string, _ any) error {
	r.clearsAtPublish = append(r.clearsAtPublish, r.cart.clears)
	return nil
}

var errStorage = errors.New("storage unavailable")
