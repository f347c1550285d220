package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/validation"
)

// mockTaskUsecase はTaskUsecaseインターフェースのモック実装です。
type mockTaskUsecase struct {
	ListFunc         func(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error)
	CreateFunc       func(ctx context.Context, ownerID uint, draft usecase.TaskDraft) (*entity.Task, error)
	RetrieveFunc     func(ctx context.Context, ownerID, id uint) (*entity.Task, error)
	UpdateFunc       func(ctx context.Context, ownerID, id uint, patch usecase.TaskPatch) (*entity.Task, error)
	DeleteFunc       func(ctx context.Context, ownerID, id uint) error
	MarkCompleteFunc func(ctx context.Context, ownerID, id uint) (*entity.Task, error)
}

func (m *mockTaskUsecase) List(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, q)
	}
	return nil, 0, nil
}

func (m *mockTaskUsecase) Create(ctx context.Context, ownerID uint, draft usecase.TaskDraft) (*entity.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, draft)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskUsecase) Retrieve(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, ownerID, id)
	}
	return nil, usecase.ErrTaskNotFound
}

func (m *mockTaskUsecase) Update(ctx context.Context, ownerID, id uint, patch usecase.TaskPatch) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, id, patch)
	}
	return nil, usecase.ErrTaskNotFound
}

func (m *mockTaskUsecase) Delete(ctx context.Context, ownerID, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	return usecase.ErrTaskNotFound
}

func (m *mockTaskUsecase) MarkComplete(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
	if m.MarkCompleteFunc != nil {
		return m.MarkCompleteFunc(ctx, ownerID, id)
	}
	return nil, usecase.ErrTaskNotFound
}

// asUser は認証ミドルウェアの代わりにテスト用のidentityを設定します。
func asUser(id uint, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, id)
		c.Set(jwtmw.ContextUsername, username)
		c.Next()
	}
}

// setupRouter wires the handler behind the fake identity middleware.
func setupRouter(h *TaskHandler, id uint, username string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(id, username))
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/:id", h.Retrieve)
	r.PUT("/tasks/:id", h.Update)
	r.PATCH("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	r.PATCH("/tasks/:id/mark_complete", h.MarkComplete)
	return r
}

// sampleTask builds a deterministic task for response assertions.
func sampleTask() *entity.Task {
	return &entity.Task{
		ID:          1,
		OwnerID:     7,
		Title:       "write report",
		Description: "quarterly summary",
		DueDate:     time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC),
		Priority:    entity.PriorityHigh,
		CreatedAt:   time.Date(2030, time.May, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2030, time.May, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewTaskHandler(t *testing.T) {
	t.Parallel()

	mockUC := &mockTaskUsecase{}
	handler := NewTaskHandler(mockUC)

	assert.NotNil(t, handler, "handler should not be nil")
	assert.NotNil(t, handler.uc, "usecase should not be nil")
}

func TestTaskHandler_List(t *testing.T) {
	t.Run("success: returns page envelope", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			ListFunc: func(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
				assert.Equal(t, uint(7), ownerID, "owner ID should come from the identity")
				return []entity.Task{*sampleTask()}, 1, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"count": 1,
			"next": null,
			"previous": null,
			"results": [{
				"id": 1,
				"owner": "alice",
				"title": "write report",
				"description": "quarterly summary",
				"due_date": "2030-06-01",
				"completed": false,
				"priority": "high",
				"created_at": "2030-05-01T12:00:00Z",
				"updated_at": "2030-05-02T12:00:00Z"
			}]
		}`, w.Body.String())
	})

	t.Run("success: empty page serializes results as an empty array", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			ListFunc: func(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
				return nil, 0, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())
	})

	t.Run("success: middle page links to both neighbours", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			ListFunc: func(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
				assert.Equal(t, 2, q.Page.Number, "page should be parsed")
				return []entity.Task{*sampleTask()}, 25, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks?page=2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Next     *string `json:"next"`
			Previous *string `json:"previous"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Next, "next link should exist")
		require.NotNil(t, body.Previous, "previous link should exist")
		assert.Contains(t, *body.Next, "page=3")
		assert.Contains(t, *body.Previous, "page=1")
	})

	t.Run("failure: bad query params return collected field errors", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			ListFunc: func(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
				t.Error("usecase must not be called for an invalid query")
				return nil, 0, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks?priority=urgent&ordering=title", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "priority")
		assert.Contains(t, w.Body.String(), "ordering")
	})
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("success: returns created task with 201", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			CreateFunc: func(ctx context.Context, ownerID uint, draft usecase.TaskDraft) (*entity.Task, error) {
				assert.Equal(t, uint(7), ownerID)
				assert.Equal(t, "write report", draft.Title)
				assert.Equal(t, "2030-06-01", draft.DueDate)
				return sampleTask(), nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		body := `{"title":"write report","description":"quarterly summary","due_date":"2030-06-01","priority":"high"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"owner":"alice"`)
	})

	t.Run("failure: validation errors map to 400 with field map", func(t *testing.T) {
		verr := validation.New()
		verr.Add("title", "Title cannot be empty.")
		verr.Add("due_date", "Due date cannot be in the past.")
		mockUC := &mockTaskUsecase{
			CreateFunc: func(ctx context.Context, ownerID uint, draft usecase.TaskDraft) (*entity.Task, error) {
				return nil, verr
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		body := `{"title":"","due_date":"2020-01-01","priority":"low"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":{
			"title":["Title cannot be empty."],
			"due_date":["Due date cannot be in the past."]
		}}`, w.Body.String())
	})

	t.Run("failure: malformed JSON returns 400", func(t *testing.T) {
		router := setupRouter(NewTaskHandler(&mockTaskUsecase{}), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/tasks", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_Retrieve(t *testing.T) {
	t.Run("success: returns the task", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			RetrieveFunc: func(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
				assert.Equal(t, uint(7), ownerID)
				assert.Equal(t, uint(1), id)
				return sampleTask(), nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"due_date":"2030-06-01"`)
	})

	t.Run("failure: unknown ID returns 404", func(t *testing.T) {
		router := setupRouter(NewTaskHandler(&mockTaskUsecase{}), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"task not found"}`, w.Body.String())
	})

	t.Run("failure: non-numeric ID returns 404 without a usecase call", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			RetrieveFunc: func(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
				t.Error("usecase must not be called for a non-numeric ID")
				return nil, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/tasks/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	t.Run("success: patch body reaches the usecase", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			UpdateFunc: func(ctx context.Context, ownerID, id uint, patch usecase.TaskPatch) (*entity.Task, error) {
				require.NotNil(t, patch.Title, "title should be present")
				assert.Equal(t, "renamed", *patch.Title)
				assert.Nil(t, patch.DueDate, "absent fields should stay nil")
				task := sampleTask()
				task.Title = "renamed"
				return task, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/1", strings.NewReader(`{"title":"renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"renamed"`)
	})

	t.Run("failure: not found maps to 404", func(t *testing.T) {
		router := setupRouter(NewTaskHandler(&mockTaskUsecase{}), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/tasks/999", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Run("success: returns 204 with empty body", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			DeleteFunc: func(ctx context.Context, ownerID, id uint) error {
				assert.Equal(t, uint(7), ownerID)
				return nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/tasks/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String(), "204 response should have no body")
	})

	t.Run("failure: not found maps to 404", func(t *testing.T) {
		router := setupRouter(NewTaskHandler(&mockTaskUsecase{}), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/tasks/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_MarkComplete(t *testing.T) {
	t.Run("success: returns the completion status message", func(t *testing.T) {
		mockUC := &mockTaskUsecase{
			MarkCompleteFunc: func(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
				task := sampleTask()
				task.Completed = true
				return task, nil
			},
		}
		router := setupRouter(NewTaskHandler(mockUC), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/1/mark_complete", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"Task marked as completed"}`, w.Body.String())
	})

	t.Run("failure: not found maps to 404", func(t *testing.T) {
		router := setupRouter(NewTaskHandler(&mockTaskUsecase{}), 7, "alice")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/999/mark_complete", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
