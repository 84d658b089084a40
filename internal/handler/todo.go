package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/model"
	"github.com/adam5096/api-server-postgresql/internal/repository"
)

// TodoHandler exposes the owner-scoped CRUD endpoints over todos. The
// authenticated user id always comes from the verified token, never from the
// request body, so a caller can only ever touch their own rows.
type TodoHandler struct {
	Todos *repository.TodoRepo
}

func NewTodoHandler(t *repository.TodoRepo) *TodoHandler { return &TodoHandler{Todos: t} }

// todoInput is one create/update entry as sent by clients.
type todoInput struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// todoResp mirrors the wire format of the original API: string ids under
// `_id`, camelCase timestamps, updatedAt null until the first update.
type todoResp struct {
	ID        string     `json:"_id"`
	UserID    uint64     `json:"userId"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

func toResp(t model.Todo) todoResp {
	return todoResp{
		ID:        strconv.FormatUint(t.ID, 10),
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// List handles GET /todos and returns all of the caller's todos, newest
// first, as a plain JSON array.
func (h *TodoHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todos, err := h.Todos.ListByOwner(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
	}
	out := make([]todoResp, 0, len(todos))
	for _, t := range todos {
		out = append(out, toResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /todos. The `todo` field accepts either a single
// object or an array of objects. Entries whose title is empty after trimming
// are skipped rather than failing the batch; the call only fails with 400
// when no entry at all survives validation. The response shape mirrors the
// input shape: object in, object out; array in, array out.
func (h *TodoHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var body struct {
		Todo json.RawMessage `json:"todo"`
	}
	if err := c.Bind(&body); err != nil || len(bytes.TrimSpace(body.Todo)) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no todo data provided"})
	}

	raw := bytes.TrimSpace(body.Todo)
	isBulk := raw[0] == '['
	var items []todoInput
	if isBulk {
		if err := json.Unmarshal(raw, &items); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "no todo data provided"})
		}
	} else {
		var one todoInput
		if err := json.Unmarshal(raw, &one); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "no todo data provided"})
		}
		items = []todoInput{one}
	}
	if len(items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no todo data provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created := []todoResp{}
	for _, item := range items {
		if item.Title == nil {
			continue
		}
		title := strings.TrimSpace(*item.Title)
		if title == "" {
			continue // skip invalid entries, do not fail the batch
		}
		completed := item.Completed != nil && *item.Completed
		t, err := h.Todos.Create(ctx, userID, title, completed)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
		}
		created = append(created, toResp(t))
	}
	if len(created) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "all todo titles invalid"})
	}

	if isBulk {
		return c.JSON(http.StatusCreated, echo.Map{"todo": created})
	}
	return c.JSON(http.StatusCreated, echo.Map{"todo": created[0]})
}

// Update handles PUT /todos/:id. The patch is partial: absent fields keep
// their value, and a title that is empty after trimming is ignored rather
// than applied or rejected. updated_at moves only when at least one field
// actually changes. A miss on the combined id+owner predicate is a 404
// whether the row is missing or owned by someone else.
func (h *TodoHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid todo id"})
	}

	var body struct {
		Todo todoInput `json:"todo"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	var title *string
	if body.Todo.Title != nil {
		if clean := strings.TrimSpace(*body.Todo.Title); clean != "" {
			title = &clean
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Todos.Update(ctx, id, userID, title, body.Todo.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "todo not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"todo": toResp(t)})
}

// Delete handles DELETE /todos/:id under the same atomic id+owner predicate
// as Update.
func (h *TodoHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid todo id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Todos.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "todo not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
