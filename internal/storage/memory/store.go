package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a mutex-guarded in-process store for tests and local development.
type Store struct {
	mu sync.Mutex

	admins   map[string]models.Admin
	orders   []models.Order
	projects map[int64]models.Project

	nextID int64
	now    func() time.Time
}

// NewStore returns an empty store stamping records with the current UTC time.
func NewStore() *Store {
	return &Store{
		admins:   make(map[string]models.Admin),
		projects: make(map[int64]models.Project),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) FindAdminByUsername(_ context.Context, username string) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[username]
	if !ok {
		return models.Admin{}, storage.ErrNotFound
	}
	return admin, nil
}

func (s *Store) UpsertAdmin(_ context.Context, admin models.Admin) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin.Username = strings.TrimSpace(admin.Username)
	if existing, ok := s.admins[admin.Username]; ok {
		existing.PasswordHash = admin.PasswordHash
		s.admins[admin.Username] = existing
		return existing, nil
	}
	admin.ID = s.id()
	admin.CreatedAt = s.now()
	s.admins[admin.Username] = admin
	return admin, nil
}

func (s *Store) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.id()
	order.CreatedAt = s.now()
	if order.Deadline != nil {
		d := *order.Deadline
		order.Deadline = &d
	}
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *Store) ListOrders(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateProject(_ context.Context, project models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project.ID = s.id()
	project.CreatedAt = s.now()
	s.projects[project.ID] = project
	return project, nil
}

func (s *Store) ListProjects(_ context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *Store) Counts(_ context.Context) (models.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Counts{
		Admins:   int64(len(s.admins)),
		Projects: int64(len(s.projects)),
		Orders:   int64(len(s.orders)),
	}, nil
}

// Close is a no-op.
func (s *Store) Close() {}
