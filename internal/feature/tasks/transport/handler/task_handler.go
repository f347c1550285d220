// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/transport/http/dto"
	"task_backend/internal/feature/tasks/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/validation"
)

// TaskUsecase はタスク操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TaskUsecase interface {
	List(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error)
	Create(ctx context.Context, ownerID uint, draft usecase.TaskDraft) (*entity.Task, error)
	Retrieve(ctx context.Context, ownerID, id uint) (*entity.Task, error)
	Update(ctx context.Context, ownerID, id uint, patch usecase.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, id uint) error
	MarkComplete(ctx context.Context, ownerID, id uint) (*entity.Task, error)
}

// TaskHandler はタスクリソースのHTTPリクエストを処理します。
// 認証ミドルウェアが解決したidentityをコンテキストから取り出し、
// すべてのユースケース呼び出しへ明示的な引数として渡します。
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler はTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// List はGET /tasksを処理します。
// クエリパラメータをフィルタ・並び順・ページングへ変換し、
// ページエンベロープ {count, next, previous, results} を返します。
func (h *TaskHandler) List(c *gin.Context) {
	q, err := usecase.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}

	ownerID, owner := identity(c)
	tasks, total, err := h.uc.List(c.Request.Context(), ownerID, q)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]dto.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, toTaskItem(&t, owner))
	}
	c.JSON(http.StatusOK, dto.TaskPage{
		Count:    total,
		Next:     pageLink(c, q.Page, total, 1),
		Previous: pageLink(c, q.Page, total, -1),
		Results:  results,
	})
}

// Create はPOST /tasksを処理します。
// - リクエストJSONをCreateTaskReqにバインド
// - フィールド検証違反は400でまとめて返却
// - 成功時は作成されたタスク付きで201を返却
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("task create bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ownerID, owner := identity(c)
	task, err := h.uc.Create(c.Request.Context(), ownerID, usecase.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskItem(task, owner))
}

// Retrieve はGET /tasks/:idを処理します。
func (h *TaskHandler) Retrieve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ownerID, owner := identity(c)
	task, err := h.uc.Retrieve(c.Request.Context(), ownerID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskItem(task, owner))
}

// Update はPUT/PATCH /tasks/:idを処理します。
// どちらのメソッドも部分更新として扱い、存在するフィールドのみ検証・適用します。
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("task update bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ownerID, owner := identity(c)
	task, err := h.uc.Update(c.Request.Context(), ownerID, id, usecase.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Priority:    req.Priority,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskItem(task, owner))
}

// Delete はDELETE /tasks/:idを処理します。成功時は204を返します。
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ownerID, _ := identity(c)
	if err := h.uc.Delete(c.Request.Context(), ownerID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkComplete はPATCH /tasks/:id/mark_completeを処理します。
// ボディは不要で、対象タスクを完了状態へ遷移させます。
func (h *TaskHandler) MarkComplete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ownerID, _ := identity(c)
	if _, err := h.uc.MarkComplete(c.Request.Context(), ownerID, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusRes{Status: "Task marked as completed"})
}

// identity は認証ミドルウェアが設定したユーザーIDとユーザー名を取り出します。
// 未設定の場合はゼロ値を返し、ユースケース側の匿名ポリシーに委ねます。
func identity(c *gin.Context) (uint, string) {
	return c.GetUint(jwtmw.ContextUserID), c.GetString(jwtmw.ContextUsername)
}

// parseID は:idパスパラメータを解釈します。数値でないIDは存在しないリソース
// として404を返します。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return 0, false
	}
	return uint(id), true
}

// writeError はユースケースのエラーをHTTPステータスへ対応付けます。
func writeError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, usecase.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		slog.Error("task operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pageLink は隣接ページへのリンクを返します。該当ページがない場合はnilです。
func pageLink(c *gin.Context, p usecase.Page, total int64, delta int) *string {
	n := p.Number + delta
	last := int((total + int64(p.Size) - 1) / int64(p.Size))
	if n < 1 || n > last {
		return nil
	}

	u := *c.Request.URL
	qs := u.Query()
	qs.Set("page", strconv.Itoa(n))
	u.RawQuery = qs.Encode()
	link := u.String()
	return &link
}

// toTaskItem converts a task entity to its JSON representation.
func toTaskItem(t *entity.Task, owner string) dto.TaskItem {
	return dto.TaskItem{
		ID:          t.ID,
		Owner:       owner,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC().Format(usecase.DateLayout),
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
