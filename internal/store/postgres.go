package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, mobile, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.Mobile, u.Email, u.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, mobile, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Username, &u.Mobile, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

type PostgresPetStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresPetStore(db *sql.DB) *PostgresPetStore {
	return &PostgresPetStore{db: db, now: time.Now}
}

const petColumns = `id, pet_name, breed, description, color, last_seen_location, date_lost,
	contact_info, image_url, identification_mark, status, created_at`

func (s *PostgresPetStore) Create(ctx context.Context, rec models.PetRecord) (models.PetRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.ID, rec.PetName, rec.Breed, rec.Description, rec.Color, rec.LastSeenLocation, rec.DateLost,
		rec.ContactInfo, rec.ImageURL, rec.IdentificationMark, string(rec.Status), rec.CreatedAt)
	if err != nil {
		return models.PetRecord{}, err
	}
	return rec, nil
}

func (s *PostgresPetStore) FindOne(ctx context.Context, f models.PetFilter) (models.PetRecord, error) {
	where, args := petWhere(f)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+petColumns+` FROM pets`+where+` ORDER BY created_at ASC, id ASC LIMIT 1`, args...)

	rec, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PetRecord{}, ErrNotFound
		}
		return models.PetRecord{}, err
	}
	return rec, nil
}

func (s *PostgresPetStore) Find(ctx context.Context, f models.PetFilter) ([]models.PetRecord, error) {
	where, args := petWhere(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PetRecord, 0)
	for rows.Next() {
		rec, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresPetStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (models.PetRecord, error) {
	var (
		rec    models.PetRecord
		status string
	)
	err := row.Scan(&rec.ID, &rec.PetName, &rec.Breed, &rec.Description, &rec.Color,
		&rec.LastSeenLocation, &rec.DateLost, &rec.ContactInfo, &rec.ImageURL,
		&rec.IdentificationMark, &status, &rec.CreatedAt)
	if err != nil {
		return models.PetRecord{}, err
	}
	rec.Status = models.PetStatus(status)
	return rec, nil
}

// petWhere renders f as a WHERE clause with positional arguments.
func petWhere(f models.PetFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.IdentificationMark != nil {
		add("identification_mark", *f.IdentificationMark)
	}
	if f.Breed != nil {
		add("breed", *f.Breed)
	}
	if f.Color != nil {
		add("color", *f.Color)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
