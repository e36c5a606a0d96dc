package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboardhq/taskboard-api/internal/api"
	"github.com/taskboardhq/taskboard-api/internal/domain"
	"github.com/taskboardhq/taskboard-api/internal/mocks"
	"github.com/taskboardhq/taskboard-api/internal/service"
)

// testServer wires the handlers to an in-memory store behind a chi router
// with the production route layout.
type testServer struct {
	router http.Handler
	users  service.UserService
	tasks  service.TaskService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := mocks.NewStore()

	users, err := service.NewUserService(st.Users(), nil)
	require.NoError(t, err)
	tasks, err := service.NewTaskService(st.Tasks(), nil)
	require.NoError(t, err)

	userHandler := api.NewUserHandler(users, nil)
	taskHandler := api.NewTaskHandler(tasks, nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", userHandler.GetAllUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{id}", userHandler.GetUserByID)
		r.Put("/users/{id}", userHandler.UpdateUser)
		r.Delete("/users/{id}", userHandler.DeleteUser)

		r.Get("/tasks", taskHandler.GetAllTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTaskByID)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})
	r.Get("/health", api.Health)

	return &testServer{router: r, users: users, tasks: tasks}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// errorMessage extracts error.message from the standard envelope and checks
// the envelope carries a parseable timestamp.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Message   string `json:"message"`
			Timestamp string `json:"timestamp"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	_, err := time.Parse(time.RFC3339, envelope.Error.Timestamp)
	require.NoError(t, err, "error envelope timestamp must be RFC 3339")
	return envelope.Error.Message
}

func (ts *testServer) createUser(t *testing.T, email, name string) domain.User {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/users",
		fmt.Sprintf(`{"email":%q,"name":%q}`, email, name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Run("returns 201 with the created user", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/users",
			`{"email":"alice@example.com","name":"Alice"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		ts := newTestServer(t)
		ts.createUser(t, "alice@example.com", "Alice")

		rec := ts.do(t, http.MethodPost, "/api/users",
			`{"email":"alice@example.com","name":"Other"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "User with email alice@example.com already exists", errorMessage(t, rec))
	})

	t.Run("validation errors return 400", func(t *testing.T) {
		ts := newTestServer(t)

		tests := []struct {
			name    string
			body    string
			message string
		}{
			{"missing email", `{"name":"Alice"}`, "Email is required"},
			{"bad email", `{"email":"not-an-email","name":"Alice"}`, "Invalid email format"},
			{"missing name", `{"email":"alice@example.com"}`, "Name is required"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				rec := ts.do(t, http.MethodPost, "/api/users", tc.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tc.message, errorMessage(t, rec))
			})
		}
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/users", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", errorMessage(t, rec))
	})
}

func TestGetUsersEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	ts.createUser(t, "alice@example.com", "Alice")
	ts.createUser(t, "bob@example.com", "Bob")

	rec = ts.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestGetUserByIDEndpoint(t *testing.T) {
	t.Run("returns the user with its tasks", func(t *testing.T) {
		ts := newTestServer(t)
		created := ts.createUser(t, "alice@example.com", "Alice")

		rec := ts.do(t, http.MethodPost, "/api/tasks",
			fmt.Sprintf(`{"title":"Write report","userId":%d}`, created.ID))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, created.ID, user.ID)
		require.Len(t, user.Tasks, 1)
		assert.Equal(t, "Write report", user.Tasks[0].Title)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/api/users/999999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User with ID 999999 not found", errorMessage(t, rec))
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/api/users/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid user ID", errorMessage(t, rec))
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	t.Run("partial update keeps absent fields", func(t *testing.T) {
		ts := newTestServer(t)
		created := ts.createUser(t, "alice@example.com", "Alice")

		rec := ts.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID),
			`{"name":"Alice Cooper"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "Alice Cooper", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPut, "/api/users/999999", `{"name":"Nobody"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User with ID 999999 not found", errorMessage(t, rec))
	})

	t.Run("invalid email returns 400", func(t *testing.T) {
		ts := newTestServer(t)
		created := ts.createUser(t, "alice@example.com", "Alice")

		rec := ts.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID),
			`{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email format", errorMessage(t, rec))
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Run("returns 204 and cascades to tasks", func(t *testing.T) {
		ts := newTestServer(t)
		created := ts.createUser(t, "alice@example.com", "Alice")

		rec := ts.do(t, http.MethodPost, "/api/tasks",
			fmt.Sprintf(`{"title":"Write report","userId":%d}`, created.ID))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.ID), "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", created.ID), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = ts.do(t, http.MethodGet, "/api/tasks", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodDelete, "/api/users/999999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User with ID 999999 not found", errorMessage(t, rec))
	})
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}
