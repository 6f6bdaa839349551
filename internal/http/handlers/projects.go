package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/middleware"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/routes"
	"github.com/satriastudio/studio-be/internal/storage"
	"github.com/satriastudio/studio-be/internal/validation"
)

// ProjectsHandler serves the public portfolio and admin project management.
type ProjectsHandler struct {
	store        storage.ProjectStore
	requireAdmin func(http.Handler) http.Handler
}

// NewProjectsHandler constructs the handler. requireAdmin gates create and delete.
func NewProjectsHandler(store storage.ProjectStore, requireAdmin func(http.Handler) http.Handler) *ProjectsHandler {
	return &ProjectsHandler{store: store, requireAdmin: requireAdmin}
}

// Register attaches project routes to the router.
func (h *ProjectsHandler) Register(r *mux.Router) {
	r.HandleFunc(routes.Projects, h.handleList).Methods(http.MethodGet)
	r.Handle(routes.Projects, h.requireAdmin(http.HandlerFunc(h.handleCreate))).Methods(http.MethodPost)
	r.Handle(routes.Project, h.requireAdmin(http.HandlerFunc(h.handleDelete))).Methods(http.MethodDelete)
}

func (h *ProjectsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListProjects(r.Context())
	if err != nil {
		writeStorageError(w, r, "list projects", err)
		return
	}
	if list == nil {
		list = []models.Project{}
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *ProjectsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.CodeInvalidPayload, "invalid JSON payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := validation.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.CodeValidation, err.Error())
		return
	}

	created, err := h.store.CreateProject(r.Context(), models.Project{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeStorageError(w, r, "create project", err)
		return
	}
	h.audit(r, "project created", created.ID)
	respond.JSON(w, http.StatusCreated, created)
}

func (h *ProjectsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "invalid project id")
		return
	}
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		writeStorageError(w, r, "delete project", err)
		return
	}
	h.audit(r, "project deleted", id)
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Message: "project deleted"})
}

func (h *ProjectsHandler) audit(r *http.Request, msg string, projectID int64) {
	fields := logrus.Fields{"project_id": projectID}
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		fields["admin_id"] = id.AdminID
		fields["admin"] = id.Username
	}
	logging.Logger.WithFields(fields).Info(msg)
}
