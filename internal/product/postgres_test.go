package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGStore(db), mock
}

func TestPGStoreCreateProductMarshalsArrays(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into products").
		WithArgs("p1", "Buckwheat", []byte(`["cereals"]`), 100.0, 313.0, []byte(`[false,false,true,false,false]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := &Product{
		ID:                   "p1",
		Title:                "Buckwheat",
		Categories:           []string{"cereals"},
		Weight:               100,
		Calories:             313,
		GroupBloodNotAllowed: []bool{false, false, true, false, false},
		CreatedAt:            time.Now(),
	}
	if err := store.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSearchFiltersBloodType(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "categories", "weight", "calories", "group_blood_not_allowed", "created_at"}).
		AddRow("p1", "Buckwheat", []byte(`["cereals"]`), 100.0, 313.0, []byte(`[false,false,false,false,false]`), created)

	mock.ExpectQuery("select id, title, categories").WithArgs("buck", 2).WillReturnRows(rows)

	found, err := store.SearchProducts(context.Background(), "buck", 2)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Buckwheat" {
		t.Fatalf("unexpected results: %+v", found)
	}
	if len(found[0].Categories) != 1 || found[0].Categories[0] != "cereals" {
		t.Fatalf("categories not unmarshaled: %+v", found[0].Categories)
	}
}

func TestPGStoreDeleteConsumedMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("delete from consumed_products").WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteConsumed(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
