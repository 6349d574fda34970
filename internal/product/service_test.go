package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(store, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return svc, store
}

func seedProduct(t *testing.T, svc *Service, title string, weight, calories float64, notAllowed []bool) *Product {
	t.Helper()
	p := &Product{
		Title:                title,
		Categories:           []string{"test"},
		Weight:               weight,
		Calories:             calories,
		GroupBloodNotAllowed: notAllowed,
	}
	require.NoError(t, svc.Create(context.Background(), p))
	return p
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, svc, "Buckwheat", 100, 313, nil)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.GroupBloodNotAllowed, BloodTypeMax+1)
	assert.False(t, p.CreatedAt.IsZero())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buckwheat", list[0].Title)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		product *Product
	}{
		{"empty title", &Product{Title: "  ", Weight: 100, Calories: 10}},
		{"zero weight", &Product{Title: "X", Weight: 0, Calories: 10}},
		{"negative calories", &Product{Title: "X", Weight: 100, Calories: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Create(ctx, tc.product), ErrInvalidInput)
		})
	}
}

func TestSearchFiltersByBloodType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, "Buckwheat", 100, 313, []bool{false, false, true, false, false})
	seedProduct(t, svc, "Buckwheat flakes", 100, 330, []bool{false, false, false, false, false})

	found, err := svc.Search(ctx, "buckwheat", 2)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Buckwheat flakes", found[0].Title)

	found, err = svc.Search(ctx, "buckwheat", 1)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSearchValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, "   ", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Search(ctx, "milk", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Search(ctx, "milk", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDailyIntake(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, "Pork", 100, 260, []bool{false, false, true, false, false})
	seedProduct(t, svc, "Oats", 100, 370, []bool{false, false, false, false, false})

	result, err := svc.DailyIntake(ctx, 70, 168, 30, 2)
	require.NoError(t, err)
	assert.Equal(t, 1605, result.DailyKcal)
	require.Len(t, result.NotRecommendedProducts, 1)
	assert.Equal(t, "Pork", result.NotRecommendedProducts[0].Title)

	_, err = svc.DailyIntake(ctx, 0, 168, 30, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.DailyIntake(ctx, 70, 168, 30, 7)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordDailyIntakePersistsSnapshot(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedProduct(t, svc, "Pork", 100, 260, []bool{false, true, false, false, false})

	result, err := svc.RecordDailyIntake(ctx, "user-1", 70, 168, 30, 1)
	require.NoError(t, err)
	assert.Equal(t, 1605, result.DailyKcal)

	intakes := store.Intakes()
	require.Len(t, intakes, 1)
	assert.Equal(t, "user-1", intakes[0].UserID)
	assert.Equal(t, 1605, intakes[0].DailyKcal)
	assert.Equal(t, []string{"Pork"}, intakes[0].NotRecommendedProducts)
}

func TestConsumptionLog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	p := seedProduct(t, svc, "Buckwheat", 100, 313, nil)

	entry, err := svc.AddConsumed(ctx, "user-1", p.ID, day, 150)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	// A second entry on a different day stays out of the first day's total.
	_, err = svc.AddConsumed(ctx, "user-1", p.ID, day.AddDate(0, 0, 1), 200)
	require.NoError(t, err)

	info, err := svc.DayInfo(ctx, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", info.Date)
	require.Len(t, info.Entries, 1)
	assert.InDelta(t, 469.5, info.TotalCalories, 0.001)
	assert.Equal(t, "Buckwheat", info.Entries[0].Title)
}

func TestAddConsumedValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	p := seedProduct(t, svc, "Buckwheat", 100, 313, nil)

	_, err := svc.AddConsumed(ctx, "user-1", p.ID, day, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddConsumed(ctx, "user-1", p.ID, time.Time{}, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddConsumed(ctx, "user-1", "missing-product", day, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteConsumedChecksOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	p := seedProduct(t, svc, "Buckwheat", 100, 313, nil)
	entry, err := svc.AddConsumed(ctx, "user-1", p.ID, day, 150)
	require.NoError(t, err)

	// Another user cannot see, let alone delete, the entry.
	assert.ErrorIs(t, svc.DeleteConsumed(ctx, "user-2", entry.ID), ErrNotFound)

	require.NoError(t, svc.DeleteConsumed(ctx, "user-1", entry.ID))
	assert.ErrorIs(t, svc.DeleteConsumed(ctx, "user-1", entry.ID), ErrNotFound)
}

func TestDayInfoKeepsOrphanedEntries(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	p := seedProduct(t, svc, "Buckwheat", 100, 313, nil)
	_, err := svc.AddConsumed(ctx, "user-1", p.ID, day, 150)
	require.NoError(t, err)

	store.DeleteProduct(p.ID)

	info, err := svc.DayInfo(ctx, "user-1", day)
	require.NoError(t, err)
	require.Len(t, info.Entries, 1)
	assert.Zero(t, info.Entries[0].Kcal)
	assert.Zero(t, info.TotalCalories)
}
