package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/profile"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `uid, display_name, email, role, education, college, city, phone_number, created_at, updated_at`

func (r *ProfileRepository) GetByUID(ctx context.Context, uid common.UUID) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE uid = $1`, uid)
	return scanProfile(row)
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	// Keyed upsert: concurrent first-time creates for the same uid collapse
	// into one row, last write wins on non-key fields.
	row := r.db.QueryRowContext(ctx, `INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (uid) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		p.UID, p.DisplayName, p.Email, p.Role, p.Education, p.College, p.City, p.PhoneNumber, p.CreatedAt, p.UpdatedAt)
	stored, err := scanProfile(row)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to upsert profile", err)
	}
	return stored, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET display_name = $1, role = $2, education = $3, college = $4, city = $5, phone_number = $6, updated_at = $7
		WHERE uid = $8`,
		p.DisplayName, p.Role, p.Education, p.College, p.City, p.PhoneNumber, p.UpdatedAt, p.UID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update profile", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "profile not found", sql.ErrNoRows)
	}
	return &p, nil
}

func scanProfile(row *sql.Row) (*profile.Profile, error) {
	var p profile.Profile
	if err := row.Scan(&p.UID, &p.DisplayName, &p.Email, &p.Role, &p.Education, &p.College, &p.City, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load profile", err)
	}
	return &p, nil
}
