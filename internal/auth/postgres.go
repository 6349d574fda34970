package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ UserStore = (*PGUserStore)(nil)

// PGUserStore implements UserStore on PostgreSQL. Email uniqueness is
// enforced by a unique index on users.email; a violation surfaces as
// ErrAlreadyExists so concurrent registrations resolve to one winner.
type PGUserStore struct {
	db *sql.DB
}

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *PGUserStore) Create(ctx context.Context, u *User) error {
	var (
		otpCode     sql.NullString
		otpExpires  sql.NullTime
		otpVerified bool
	)
	if u.OTP != nil {
		otpVerified = u.OTP.Verified
		if u.OTP.Code != "" {
			otpCode = sql.NullString{String: u.OTP.Code, Valid: true}
			otpExpires = sql.NullTime{Time: u.OTP.ExpiresAt, Valid: true}
		}
	}
	info, err := marshalCalorieInfo(u.CalorieInfo)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into users(id, name, email, password_hash, role, otp_code, otp_expires_at, otp_verified, calorie_info)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, otpCode, otpExpires, otpVerified, info)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PGUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, `where id=$1`, id)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `where email=$1`, email)
}

func (s *PGUserStore) findOne(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, role, otp_code, otp_expires_at, otp_verified, calorie_info, created_at, updated_at
		from users `+where, arg)
	var (
		u           User
		otpCode     sql.NullString
		otpExpires  sql.NullTime
		otpVerified bool
		info        []byte
		updatedAt   sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &otpCode, &otpExpires, &otpVerified, &info, &u.CreatedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if otpCode.Valid || otpVerified {
		u.OTP = &OTPChallenge{Verified: otpVerified}
		if otpCode.Valid {
			u.OTP.Code = otpCode.String
		}
		if otpExpires.Valid {
			u.OTP.ExpiresAt = otpExpires.Time
		}
	}
	if len(info) > 0 {
		var ci CalorieInfo
		if err := json.Unmarshal(info, &ci); err == nil {
			u.CalorieInfo = &ci
		}
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return &u, nil
}

func (s *PGUserStore) Save(ctx context.Context, u *User) error {
	var (
		otpCode     sql.NullString
		otpExpires  sql.NullTime
		otpVerified bool
	)
	if u.OTP != nil {
		otpVerified = u.OTP.Verified
		if u.OTP.Code != "" {
			otpCode = sql.NullString{String: u.OTP.Code, Valid: true}
			otpExpires = sql.NullTime{Time: u.OTP.ExpiresAt, Valid: true}
		}
	}
	info, err := marshalCalorieInfo(u.CalorieInfo)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		update users
		set name=$2, password_hash=$3, role=$4, otp_code=$5, otp_expires_at=$6, otp_verified=$7, calorie_info=$8, updated_at=now()
		where id=$1
	`, u.ID, u.Name, u.PasswordHash, u.Role, otpCode, otpExpires, otpVerified, info)
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

func marshalCalorieInfo(info *CalorieInfo) (any, error) {
	if info == nil {
		return nil, nil
	}
	return json.Marshal(info)
}
