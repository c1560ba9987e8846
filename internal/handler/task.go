package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker-api/internal/middleware"
	"github.com/iliyamo/task-tracker-api/internal/model"
	"github.com/iliyamo/task-tracker-api/internal/repository"
	"github.com/iliyamo/task-tracker-api/internal/service"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// TaskHandler serves /tasks.  Every route sits behind the auth gate, and the
// task service enforces ownership.
type TaskHandler struct {
	Tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

type createTaskReq struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   bool    `json:"completed"`
}

type updateTaskReq struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Completed   *bool   `json:"completed"`
}

type taskResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResp(t *model.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// List handles GET /tasks?skip=&limit=.
func (h *TaskHandler) List(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	skip, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.List(ctx, principal, skip, limit)
	if err != nil {
		return err
	}
	out := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /tasks.  The owner is always the caller.
func (h *TaskHandler) Create(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Create(ctx, principal, req.Title, req.Description, req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResp(t))
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Update handles PUT and PATCH /tasks/:id.  Both are partial: omitted
// fields keep their values.
func (h *TaskHandler) Update(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var req updateTaskReq
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Update(ctx, principal, id, model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, principal, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// taskID parses the :id path parameter.  Non-numeric ids are 400; numeric
// ids that no row can have (zero or negative) are reported as not found.
func taskID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	if id <= 0 {
		return 0, repository.ErrNotFound
	}
	return uint64(id), nil
}

// pageParams reads skip and limit.  Out-of-range or non-numeric values are
// validation errors rather than silently clamped.
func pageParams(c echo.Context) (int, int, error) {
	verr := &ValidationError{}
	skip, limit := 0, defaultLimit
	if s := c.QueryParam("skip"); s != "" {
		n, err := strconv.Atoi(s)
		switch {
		case err != nil:
			verr.Add("skip", "must be an integer", "int")
		case n < 0:
			verr.Add("skip", "must be greater than or equal to 0", "min")
		default:
			skip = n
		}
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		switch {
		case err != nil:
			verr.Add("limit", "must be an integer", "int")
		case n < 1:
			verr.Add("limit", "must be greater than or equal to 1", "min")
		case n > maxLimit:
			verr.Add("limit", "must be less than or equal to "+strconv.Itoa(maxLimit), "max")
		default:
			limit = n
		}
	}
	if len(verr.Errors) > 0 {
		return 0, 0, verr
	}
	return skip, limit, nil
}
