package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL. Array-valued fields are stored as
// jsonb, matching how the catalog is consumed by clients.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateProduct(ctx context.Context, p *Product) error {
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return err
	}
	blood, err := json.Marshal(p.GroupBloodNotAllowed)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into products(id, title, categories, weight, calories, group_blood_not_allowed, created_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.Title, categories, p.Weight, p.Calories, blood, p.CreatedAt)
	return err
}

const productColumns = `id, title, categories, weight, calories, group_blood_not_allowed, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var (
		p          Product
		categories []byte
		blood      []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &categories, &p.Weight, &p.Calories, &blood, &p.CreatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal(categories, &p.Categories)
	_ = json.Unmarshal(blood, &p.GroupBloodNotAllowed)
	return &p, nil
}

func (s *PGStore) FindProduct(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `select `+productColumns+` from products where id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *PGStore) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.queryProducts(ctx, `select `+productColumns+` from products order by title`)
}

func (s *PGStore) SearchProducts(ctx context.Context, query string, bloodType int) ([]*Product, error) {
	return s.queryProducts(ctx, `
		select `+productColumns+` from products
		where (title ilike '%'||$1||'%' or categories::text ilike '%'||$1||'%')
		  and coalesce((group_blood_not_allowed ->> $2::int)::bool, false) = false
		order by title
	`, query, bloodType)
}

func (s *PGStore) NotAllowedForBlood(ctx context.Context, bloodType int) ([]*Product, error) {
	return s.queryProducts(ctx, `
		select `+productColumns+` from products
		where coalesce((group_blood_not_allowed ->> $1::int)::bool, false) = true
		order by title
	`, bloodType)
}

func (s *PGStore) queryProducts(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *PGStore) CreateIntake(ctx context.Context, intake *DailyIntake) error {
	titles, err := json.Marshal(intake.NotRecommendedProducts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into daily_intakes(id, user_id, weight, height, age, daily_kcal, not_recommended_products, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, intake.ID, intake.UserID, intake.Weight, intake.Height, intake.Age, intake.DailyKcal, titles, intake.CreatedAt)
	return err
}

func (s *PGStore) CreateConsumed(ctx context.Context, c *ConsumedProduct) error {
	_, err := s.db.ExecContext(ctx, `
		insert into consumed_products(id, user_id, product_id, date, quantity, created_at)
		values ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.UserID, c.ProductID, c.Date, c.Quantity, c.CreatedAt)
	return err
}

func (s *PGStore) FindConsumed(ctx context.Context, id string) (*ConsumedProduct, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, user_id, product_id, date, quantity, created_at
		from consumed_products where id=$1
	`, id)
	var c ConsumedProduct
	if err := row.Scan(&c.ID, &c.UserID, &c.ProductID, &c.Date, &c.Quantity, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PGStore) DeleteConsumed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from consumed_products where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ListConsumed(ctx context.Context, userID string, from, to time.Time) ([]*ConsumedProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, product_id, date, quantity, created_at
		from consumed_products
		where user_id=$1 and date >= $2 and date < $3
		order by created_at
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*ConsumedProduct
	for rows.Next() {
		var c ConsumedProduct
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProductID, &c.Date, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}
