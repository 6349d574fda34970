package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"slimmom.org/internal/ids"
)

// Service implements catalog lookups, calorie recommendations and the
// per-user consumption log.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the product service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("product: store is required")
	}
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.store.ListProducts(ctx)
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, p *Product) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || p.Weight <= 0 || p.Calories < 0 {
		return ErrInvalidInput
	}
	if len(p.GroupBloodNotAllowed) == 0 {
		p.GroupBloodNotAllowed = make([]bool, BloodTypeMax+1)
	}
	if p.ID == "" {
		p.ID = ids.New()
	}
	p.CreatedAt = s.now().UTC()
	return s.store.CreateProduct(ctx, p)
}

// Search finds allowed products matching the query for a blood type.
func (s *Service) Search(ctx context.Context, query string, bloodType int) ([]*Product, error) {
	query = strings.TrimSpace(query)
	if query == "" || bloodType < BloodTypeMin || bloodType > BloodTypeMax {
		return nil, ErrInvalidInput
	}
	return s.store.SearchProducts(ctx, query, bloodType)
}

// IntakeResult is a calorie recommendation with the foods to avoid.
type IntakeResult struct {
	DailyKcal              int
	NotRecommendedProducts []*Product
}

// DailyIntake computes the recommendation for the given parameters.
func (s *Service) DailyIntake(ctx context.Context, weight, height, age float64, bloodType int) (*IntakeResult, error) {
	kcal, ok := Calories(weight, height, age)
	if !ok {
		return nil, ErrInvalidInput
	}
	if bloodType < BloodTypeMin || bloodType > BloodTypeMax {
		return nil, ErrInvalidInput
	}
	notAllowed, err := s.store.NotAllowedForBlood(ctx, bloodType)
	if err != nil {
		return nil, err
	}
	return &IntakeResult{DailyKcal: kcal, NotRecommendedProducts: notAllowed}, nil
}

// RecordDailyIntake computes the recommendation and persists a snapshot for
// the user.
func (s *Service) RecordDailyIntake(ctx context.Context, userID string, weight, height, age float64, bloodType int) (*IntakeResult, error) {
	result, err := s.DailyIntake(ctx, weight, height, age, bloodType)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(result.NotRecommendedProducts))
	for _, p := range result.NotRecommendedProducts {
		titles = append(titles, p.Title)
	}
	intake := &DailyIntake{
		ID:                     ids.New(),
		UserID:                 userID,
		Weight:                 weight,
		Height:                 height,
		Age:                    age,
		DailyKcal:              result.DailyKcal,
		NotRecommendedProducts: titles,
		CreatedAt:              s.now().UTC(),
	}
	if err := s.store.CreateIntake(ctx, intake); err != nil {
		return nil, fmt.Errorf("record intake: %w", err)
	}
	return result, nil
}

// AddConsumed logs a consumed product for the user.
func (s *Service) AddConsumed(ctx context.Context, userID, productID string, date time.Time, quantity float64) (*ConsumedProduct, error) {
	if quantity <= 0 || date.IsZero() {
		return nil, ErrInvalidInput
	}
	if _, err := s.store.FindProduct(ctx, productID); err != nil {
		return nil, err
	}
	entry := &ConsumedProduct{
		ID:        ids.New(),
		UserID:    userID,
		ProductID: productID,
		Date:      date,
		Quantity:  quantity,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateConsumed(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteConsumed removes a log entry, refusing to touch other users' records.
func (s *Service) DeleteConsumed(ctx context.Context, userID, id string) error {
	entry, err := s.store.FindConsumed(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return ErrNotFound
	}
	return s.store.DeleteConsumed(ctx, id)
}

// DayInfo sums calories for all entries logged on the given day.
// Per-entry kcal is catalog calories scaled by quantity over catalog weight.
func (s *Service) DayInfo(ctx context.Context, userID string, day time.Time) (*DayInfo, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	entries, err := s.store.ListConsumed(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	info := &DayInfo{Date: from.Format("2006-01-02"), Entries: []DayEntry{}}
	for _, entry := range entries {
		p, err := s.store.FindProduct(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Product removed from the catalog after logging; keep the
				// entry with zero kcal rather than failing the whole day.
				info.Entries = append(info.Entries, DayEntry{Consumed: *entry})
				continue
			}
			return nil, err
		}
		kcal := 0.0
		if p.Weight > 0 {
			kcal = p.Calories * entry.Quantity / p.Weight
		}
		info.TotalCalories += kcal
		info.Entries = append(info.Entries, DayEntry{Consumed: *entry, Title: p.Title, Kcal: kcal})
	}
	return info, nil
}
