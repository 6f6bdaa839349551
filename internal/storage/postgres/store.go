package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects, verifies the connection and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			whatsapp TEXT NOT NULL,
			service TEXT NOT NULL,
			deadline TEXT,
			detail TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC, id DESC);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS projects_created_at_idx ON projects (created_at DESC, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// FindAdminByUsername fetches an admin by exact username.
func (s *Store) FindAdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	const query = `
	SELECT id, username, password_hash, created_at
	FROM admins
	WHERE username = $1;
	`
	var admin models.Admin
	err := s.pool.QueryRow(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		return models.Admin{}, mapErr(err)
	}
	return admin, nil
}

// UpsertAdmin creates the admin or rotates the password of an existing one.
func (s *Store) UpsertAdmin(ctx context.Context, admin models.Admin) (models.Admin, error) {
	const query = `
	INSERT INTO admins (username, password_hash)
	VALUES ($1, $2)
	ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	RETURNING id, username, password_hash, created_at;
	`
	var out models.Admin
	err := s.pool.QueryRow(ctx, query, admin.Username, admin.PasswordHash).Scan(&out.ID, &out.Username, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		return models.Admin{}, mapErr(err)
	}
	return out, nil
}

// CreateOrder inserts an order whose sensitive fields are already encoded.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	const query = `
	INSERT INTO orders (name, whatsapp, service, deadline, detail)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, name, whatsapp, service, deadline, detail, created_at;
	`
	row := s.pool.QueryRow(ctx, query, order.Name, order.WhatsApp, order.Service, order.Deadline, order.Detail)
	return scanOrder(row)
}

// ListOrders returns all orders, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	const query = `
	SELECT id, name, whatsapp, service, deadline, detail, created_at
	FROM orders
	ORDER BY created_at DESC, id DESC;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// CreateProject inserts a portfolio project.
func (s *Store) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	const query = `
	INSERT INTO projects (title, category, description, image_url)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, category, description, image_url, created_at;
	`
	row := s.pool.QueryRow(ctx, query, project.Title, project.Category, project.Description, project.ImageURL)
	return scanProject(row)
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	const query = `
	SELECT id, title, category, description, image_url, created_at
	FROM projects
	ORDER BY created_at DESC, id DESC;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// DeleteProject removes a project by id.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Counts reports table sizes.
func (s *Store) Counts(ctx context.Context) (models.Counts, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM admins),
		(SELECT COUNT(*) FROM projects),
		(SELECT COUNT(*) FROM orders);
	`
	var c models.Counts
	if err := s.pool.QueryRow(ctx, query).Scan(&c.Admins, &c.Projects, &c.Orders); err != nil {
		return models.Counts{}, mapErr(err)
	}
	return c, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.Name, &o.WhatsApp, &o.Service, &o.Deadline, &o.Detail, &o.CreatedAt); err != nil {
		return models.Order{}, mapErr(err)
	}
	return o, nil
}

func scanProject(row pgx.Row) (models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.ImageURL, &p.CreatedAt); err != nil {
		return models.Project{}, mapErr(err)
	}
	return p, nil
}

// mapErr translates driver errors into storage sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return storage.ErrAlreadyExists
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
}
