package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adam5096/api-server-postgresql/internal/middleware"
	"github.com/adam5096/api-server-postgresql/internal/repository"
)

const (
	qTodoInsert = `INSERT INTO todos (user_id, title, completed) VALUES ($1,$2,$3) RETURNING id, created_at`
	qTodoList   = `SELECT id, user_id, title, completed, created_at, updated_at FROM todos WHERE user_id=$1 ORDER BY created_at DESC`
	qTodoGet    = `SELECT id, user_id, title, completed, created_at, updated_at FROM todos WHERE id=$1 AND user_id=$2`
	qTodoDelete = `DELETE FROM todos WHERE id=$1 AND user_id=$2`
)

func newTodoHandler(t *testing.T) (*TodoHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTodoHandler(repository.NewTodoRepo(db)), mock
}

// doAuthed runs a handler with the context an authenticated request carries.
func doAuthed(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(1))
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, h(c))
	return rec
}

func TestTodoHandler_List(t *testing.T) {
	h, mock := newTodoHandler(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(qTodoList)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "completed", "created_at", "updated_at"}).
			AddRow(2, 1, "newer", false, now, nil).
			AddRow(1, 1, "older", true, now.Add(-time.Hour), now))

	rec := doAuthed(t, h.List, http.MethodGet, "/todos", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0]["_id"])
	assert.Equal(t, "newer", out[0]["title"])
	assert.Nil(t, out[0]["updatedAt"])
	assert.Equal(t, "1", out[1]["_id"])
	assert.NotNil(t, out[1]["updatedAt"])
}

func TestTodoHandler_List_Empty(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(qTodoList)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "completed", "created_at", "updated_at"}))

	rec := doAuthed(t, h.List, http.MethodGet, "/todos", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// An empty list is a JSON array, never null.
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestTodoHandler_Create_Single(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(qTodoInsert)).
		WithArgs(uint64(1), "buy milk", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, time.Now()))

	rec := doAuthed(t, h.Create, http.MethodPost, "/todos",
		`{"todo":{"title":"buy milk"}}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Todo map[string]any `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Object in, object out.
	assert.Equal(t, "5", resp.Todo["_id"])
	assert.Equal(t, "buy milk", resp.Todo["title"])
	assert.Equal(t, false, resp.Todo["completed"])
	assert.Nil(t, resp.Todo["updatedAt"])
}

func TestTodoHandler_Create_BatchSkipsBlankTitles(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(qTodoInsert)).
		WithArgs(uint64(1), "first", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(qTodoInsert)).
		WithArgs(uint64(1), "second", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	rec := doAuthed(t, h.Create, http.MethodPost, "/todos",
		`{"todo":[{"title":"first"},{"title":"   "},{"title":"second","completed":true},{}]}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Todo []map[string]any `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Array in, array out; blank entries skipped, not failed.
	require.Len(t, resp.Todo, 2)
	assert.Equal(t, "first", resp.Todo[0]["title"])
	assert.Equal(t, "second", resp.Todo[1]["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoHandler_Create_AllBlank(t *testing.T) {
	h, mock := newTodoHandler(t)

	rec := doAuthed(t, h.Create, http.MethodPost, "/todos",
		`{"todo":[{"title":""},{"title":"  "}]}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet()) // nothing inserted
}

func TestTodoHandler_Create_NoData(t *testing.T) {
	h, _ := newTodoHandler(t)

	for _, body := range []string{`{}`, `{"todo":[]}`, `{"todo":null}`} {
		rec := doAuthed(t, h.Create, http.MethodPost, "/todos", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestTodoHandler_Update_TitleAndCompleted(t *testing.T) {
	h, mock := newTodoHandler(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET title=$1, completed=$2, updated_at=NOW() WHERE id=$3 AND user_id=$4 RETURNING id, user_id, title, completed, created_at, updated_at`)).
		WithArgs("new title", true, uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "completed", "created_at", "updated_at"}).
			AddRow(9, 1, "new title", true, now.Add(-time.Hour), now))

	rec := doAuthed(t, h.Update, http.MethodPut, "/todos/9",
		`{"todo":{"title":"new title","completed":true}}`, map[string]string{"id": "9"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Todo map[string]any `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new title", resp.Todo["title"])
	assert.Equal(t, true, resp.Todo["completed"])
	assert.NotNil(t, resp.Todo["updatedAt"])
}

func TestTodoHandler_Update_BlankTitleIgnored(t *testing.T) {
	h, mock := newTodoHandler(t)

	// A blank title leaves no effective patch, so the row is read back
	// unchanged and updated_at does not move.
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(qTodoGet)).
		WithArgs(uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "completed", "created_at", "updated_at"}).
			AddRow(9, 1, "untouched", false, now, nil))

	rec := doAuthed(t, h.Update, http.MethodPut, "/todos/9",
		`{"todo":{"title":"   "}}`, map[string]string{"id": "9"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Todo map[string]any `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "untouched", resp.Todo["title"])
	assert.Nil(t, resp.Todo["updatedAt"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoHandler_Update_OtherOwner(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET completed=$1, updated_at=NOW() WHERE id=$2 AND user_id=$3 RETURNING id, user_id, title, completed, created_at, updated_at`)).
		WithArgs(true, uint64(9), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "completed", "created_at", "updated_at"}))

	rec := doAuthed(t, h.Update, http.MethodPut, "/todos/9",
		`{"todo":{"completed":true}}`, map[string]string{"id": "9"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodoHandler_Update_InvalidID(t *testing.T) {
	h, _ := newTodoHandler(t)

	rec := doAuthed(t, h.Update, http.MethodPut, "/todos/abc",
		`{"todo":{"completed":true}}`, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoHandler_Delete(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(qTodoDelete)).
		WithArgs(uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doAuthed(t, h.Delete, http.MethodDelete, "/todos/4", "", map[string]string{"id": "4"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTodoHandler_Delete_OtherOwner(t *testing.T) {
	h, mock := newTodoHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(qTodoDelete)).
		WithArgs(uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doAuthed(t, h.Delete, http.MethodDelete, "/todos/4", "", map[string]string{"id": "4"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
