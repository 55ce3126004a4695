package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/mocks"
	"github.com/taskify-app/taskify-api/internal/service"
)

const testUserHeader = "X-Test-User"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAuth stands in for the JWT middleware: it trusts the user ID in a test
// header.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.Parse(r.Header.Get(testUserHeader)); err == nil {
			r = r.WithContext(shared.WithUser(r.Context(), id, ""))
		}
		next.ServeHTTP(w, r)
	})
}

type handlerFixture struct {
	t      *testing.T
	router http.Handler
	stores *mocks.MemoryStores
}

func newHandlerFixture(t *testing.T, lists service.ListService) *handlerFixture {
	t.Helper()

	stores := mocks.NewMemoryStores()
	tx := &mocks.MockTxRunner{}

	if lists == nil {
		var err error
		lists, err = service.NewListService(stores.Users, stores.Lists, stores.Preferences, tx, discardLogger)
		require.NoError(t, err)
	}
	tasks, err := service.NewTaskService(stores.Lists, stores.Tasks, tx, discardLogger)
	require.NoError(t, err)
	users, err := service.NewUserService(stores.Users, tx, &mocks.MockPasswordHasher{}, discardLogger)
	require.NoError(t, err)

	listHandler := NewListHandler(lists, discardLogger)
	taskHandler := NewTaskHandler(tasks, discardLogger)
	userHandler := NewUserHandler(users)

	r := chi.NewRouter()
	r.Use(fakeAuth)
	r.Get("/users/{userId}", userHandler.GetUser)
	r.Get("/lists", listHandler.GetLists)
	r.Post("/lists", listHandler.CreateList)
	r.Get("/lists/{listId}", listHandler.GetList)
	r.Put("/lists/{listId}", listHandler.UpdateList)
	r.Delete("/lists/{listId}", listHandler.DeleteList)
	r.Post("/tasks/{listId}", taskHandler.CreateTask)
	r.Get("/tasks/{listId}/{taskId}", taskHandler.GetTask)
	r.Put("/tasks/{listId}/{taskId}", taskHandler.UpdateTask)

	return &handlerFixture{t: t, router: r, stores: stores}
}

func (f *handlerFixture) addUser(name, email string) uuid.UUID {
	f.t.Helper()

	user, err := domain.NewUser(name, email, "password123")
	require.NoError(f.t, err)
	user.HashedPassword = mocks.MockHash("password123")
	require.NoError(f.t, f.stores.Users.Create(context.Background(), user))
	return user.ID
}

func (f *handlerFixture) send(method, path string, caller uuid.UUID, body string) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if caller != uuid.Nil {
		req.Header.Set(testUserHeader, caller.String())
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Error
}

func TestListHandler_CreateList(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	owner := f.addUser("Owner", "owner@example.com")
	f.addUser("Friend", "friend@example.com")

	tests := []struct {
		name       string
		caller     uuid.UUID
		body       string
		wantStatus int
		wantError  string
	}{
		{"no identity", uuid.Nil, `{"title":"x"}`, http.StatusUnauthorized, "Authentication required"},
		{"empty body", owner, "", http.StatusBadRequest, "Invalid request format"},
		{"malformed json", owner, `{"title":`, http.StatusBadRequest, "Invalid request format"},
		{"missing title", owner, `{"daily":true}`, http.StatusBadRequest, "Invalid Title: required field"},
		{"bad collaborators type", owner, `{"title":"x","collaboratorsEmails":42}`, http.StatusBadRequest,
			"Collaborators must be a string or an array of strings"},
		{"unknown collaborator", owner, `{"title":"x","collaboratorsEmails":["ghost@example.com"]}`, http.StatusBadRequest,
			`No registered user with email "ghost@example.com"`},
		{"created", owner, `{"title":" Trip ","collaboratorsEmails":["Friend@example.com"],"fixed":true}`, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.send(http.MethodPost, "/lists", tt.caller, tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rr))
				return
			}

			var resp ListResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "Trip", resp.Title)
			assert.Equal(t, owner, resp.UserID)
			assert.True(t, resp.Fixed)
			assert.Equal(t, []string{"friend@example.com"}, resp.CollaboratorsEmails)
		})
	}
}

func TestListHandler_PathValidation(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	owner := f.addUser("Owner", "owner@example.com")

	rr := f.send(http.MethodGet, "/lists/not-a-uuid", owner, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "ListId has invalid format", decodeError(t, rr))

	rr = f.send(http.MethodGet, "/lists/"+uuid.NewString(), owner, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "List not found", decodeError(t, rr))
}

func TestListHandler_UpdateRejectsNullFixed(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	owner := f.addUser("Owner", "owner@example.com")

	rr := f.send(http.MethodPost, "/lists", owner, `{"title":"Home"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	rr = f.send(http.MethodPut, "/lists/"+created.ID.String(), owner, `{"fixed":null}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Field cannot be null", decodeError(t, rr))

	rr = f.send(http.MethodPut, "/lists/"+created.ID.String(), owner, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Title cannot be empty", decodeError(t, rr))
}

func TestListHandler_DeleteMessages(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	owner := f.addUser("Owner", "owner@example.com")
	friend := f.addUser("Friend", "friend@example.com")

	rr := f.send(http.MethodPost, "/lists", owner, `{"title":"Trip","collaboratorsEmails":"friend@example.com"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	path := "/lists/" + created.ID.String()

	var msg shared.MessageResponse
	rr = f.send(http.MethodDelete, path, friend, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&msg))
	assert.Equal(t, "You left the list Trip.", msg.Message)

	rr = f.send(http.MethodDelete, path, owner, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&msg))
	assert.Equal(t, "List Trip deleted successfully.", msg.Message)
}

// failingListService returns err from every method.
type failingListService struct {
	service.ListService
	err error
}

func (s failingListService) GetUserLists(context.Context, uuid.UUID) ([]domain.ListView, error) {
	return nil, s.err
}

func TestListHandler_InternalErrorsUseFallback(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, failingListService{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")})
	rr := f.send(http.MethodGet, "/lists", uuid.New(), "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Failed to get lists")
	assert.NotContains(t, body, "10.0.0.5")
}

func TestTaskHandler_CreateAndMerge(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	owner := f.addUser("Owner", "owner@example.com")

	rr := f.send(http.MethodPost, "/lists", owner, `{"title":"Work"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var list ListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))

	rr = f.send(http.MethodPost, "/tasks/"+uuid.NewString(), owner, `{"title":"orphan"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.send(http.MethodPost, "/tasks/"+list.ID.String(), owner, `{"title":"Ship","dueDate":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "DueDate must be an RFC 3339 timestamp or YYYY-MM-DD", decodeError(t, rr))

	rr = f.send(http.MethodPost, "/tasks/"+list.ID.String(), owner,
		`{"title":"Ship","description":"v1","priority":"high","notification":true}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var task TaskResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&task))
	assert.False(t, task.Completed)
	assert.False(t, task.Important)
	assert.True(t, task.Notification)

	taskPath := "/tasks/" + list.ID.String() + "/" + task.ID.String()

	rr = f.send(http.MethodPut, taskPath, owner, `{"notification":false,"priority":null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var merged TaskResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&merged))
	assert.False(t, merged.Notification, "explicit false overrides")
	assert.Nil(t, merged.Priority, "explicit null clears")
	assert.Equal(t, "Ship", merged.Title)
	require.NotNil(t, merged.Description)
	assert.Equal(t, "v1", *merged.Description)

	rr = f.send(http.MethodPut, taskPath, owner, `{"title":null}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.send(http.MethodGet, "/tasks/"+list.ID.String()+"/"+uuid.NewString(), owner, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Task not found", decodeError(t, rr))
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, nil)
	ada := f.addUser("Ada", "ada@example.com")
	bob := f.addUser("Bob", "bob@example.com")

	rr := f.send(http.MethodGet, "/users/"+ada.String(), ada, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, UserResponse{ID: ada, Name: "Ada", Email: "ada@example.com"}, resp)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = f.send(http.MethodGet, "/users/"+ada.String(), bob, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDecodeAndValidateBodyLimit(t *testing.T) {
	t.Parallel()

	big := bytes.Repeat([]byte("a"), shared.MaxRequestBodyBytes+10)
	body := `{"title":"` + string(big) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader(body))
	rr := httptest.NewRecorder()

	var out CreateListRequest
	assert.False(t, decodeAndValidate(rr, req, &out))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
