package product

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store for tests and local runs without
// PostgreSQL.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]*Product
	consumed map[string]*ConsumedProduct
	intakes  []*DailyIntake
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*Product),
		consumed: make(map[string]*ConsumedProduct),
	}
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) FindProduct(ctx context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		res = append(res, &cp)
	}
	sortProducts(res)
	return res, nil
}

func (s *MemoryStore) SearchProducts(ctx context.Context, query string, bloodType int) ([]*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(query)
	var res []*Product
	for _, p := range s.products {
		if p.NotAllowedFor(bloodType) {
			continue
		}
		if !matchesQuery(p, query) {
			continue
		}
		cp := *p
		res = append(res, &cp)
	}
	sortProducts(res)
	return res, nil
}

func matchesQuery(p *Product, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), loweredQuery) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), loweredQuery) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) NotAllowedForBlood(ctx context.Context, bloodType int) ([]*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*Product
	for _, p := range s.products {
		if p.NotAllowedFor(bloodType) {
			cp := *p
			res = append(res, &cp)
		}
	}
	sortProducts(res)
	return res, nil
}

func sortProducts(products []*Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].Title < products[j].Title })
}

func (s *MemoryStore) CreateIntake(ctx context.Context, intake *DailyIntake) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *intake
	s.intakes = append(s.intakes, &cp)
	return nil
}

// DeleteProduct removes a catalog entry; test helper.
func (s *MemoryStore) DeleteProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// Intakes returns recorded snapshots; test helper.
func (s *MemoryStore) Intakes() []*DailyIntake {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*DailyIntake(nil), s.intakes...)
}

func (s *MemoryStore) CreateConsumed(ctx context.Context, c *ConsumedProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.consumed[c.ID] = &cp
	return nil
}

func (s *MemoryStore) FindConsumed(ctx context.Context, id string) (*ConsumedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consumed[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) DeleteConsumed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consumed[id]; !ok {
		return ErrNotFound
	}
	delete(s.consumed, id)
	return nil
}

func (s *MemoryStore) ListConsumed(ctx context.Context, userID string, from, to time.Time) ([]*ConsumedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*ConsumedProduct
	for _, c := range s.consumed {
		if c.UserID != userID {
			continue
		}
		if c.Date.Before(from) || !c.Date.Before(to) {
			continue
		}
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
