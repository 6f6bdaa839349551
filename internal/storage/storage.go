package storage

import (
	"context"
	"errors"

	"github.com/satriastudio/studio-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrUnavailable indicates the backing store could not serve the request.
var ErrUnavailable = errors.New("storage unavailable")

// AdminStore captures admin lookups used by the credential authority and seeding.
type AdminStore interface {
	FindAdminByUsername(ctx context.Context, username string) (models.Admin, error)
	UpsertAdmin(ctx context.Context, admin models.Admin) (models.Admin, error)
}

// OrderStore persists orders. Sensitive fields arrive already encoded.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// ProjectStore persists portfolio projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, project models.Project) (models.Project, error)
	// ListProjects returns every project, newest first.
	ListProjects(ctx context.Context) ([]models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Store is the full persistence surface used by the server.
type Store interface {
	AdminStore
	OrderStore
	ProjectStore
	Counts(ctx context.Context) (models.Counts, error)
	Close()
}
