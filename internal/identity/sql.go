package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/db"
)

type queries struct {
	get    string
	create string
}

var dialectQueries = map[db.Dialect]queries{
	db.Postgres: {
		get: `
			SELECT id, display_name, email, profile_image_url, created_at
			FROM identities
			WHERE id = $1
		`,
		create: `
			INSERT INTO identities (id, display_name, email, profile_image_url, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`,
	},
	db.SQLite: {
		get: `
			SELECT id, display_name, email, profile_image_url, created_at
			FROM identities
			WHERE id = ?
		`,
		create: `
			INSERT INTO identities (id, display_name, email, profile_image_url, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING
		`,
	},
}

// SQLStore persists identities in Postgres or SQLite.
type SQLStore struct {
	db  *db.DB
	q   queries
	now func() time.Time
}

func NewSQLStore(d *db.DB) (*SQLStore, error) {
	q, ok := dialectQueries[d.Dialect]
	if !ok {
		return nil, fmt.Errorf("identity: unsupported dialect %q", d.Dialect)
	}
	return &SQLStore{db: d, q: q, now: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*auth.Identity, error) {
	var (
		identity auth.Identity
		err      error
	)

	row := s.db.QueryRowContext(ctx, s.q.get, id)
	if s.db.Dialect == db.SQLite {
		var createdAt int64
		err = row.Scan(&identity.ID, &identity.DisplayName, &identity.Email, &identity.ProfileImageURL, &createdAt)
		identity.CreatedAt = time.UnixMilli(createdAt).UTC()
	} else {
		err = row.Scan(&identity.ID, &identity.DisplayName, &identity.Email, &identity.ProfileImageURL, &identity.CreatedAt)
		identity.CreatedAt = identity.CreatedAt.UTC()
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity: get %s: %w", id, err)
	}
	return &identity, nil
}

func (s *SQLStore) Create(ctx context.Context, identity auth.Identity) (*auth.Identity, error) {
	if err := validate(identity); err != nil {
		return nil, err
	}

	identity.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	var createdAt any = identity.CreatedAt
	if s.db.Dialect == db.SQLite {
		createdAt = identity.CreatedAt.UnixMilli()
	}

	res, err := s.db.ExecContext(ctx, s.q.create,
		identity.ID,
		identity.DisplayName,
		identity.Email,
		identity.ProfileImageURL,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("identity: create %s: %w", identity.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("identity: create %s: %w", identity.ID, err)
	}
	if n == 0 {
		return nil, ErrConflict
	}
	return &identity, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
