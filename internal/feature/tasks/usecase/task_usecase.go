package usecase

import (
	"context"
	"strings"
	"time"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/shared/validation"
)

// TaskRepository はタスクエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
// リポジトリは所有権を強制しません。ownerIDは呼び出し側が渡す単なる述語であり、
// 所有権の判断はこのユースケース層の責務です。
type TaskRepository interface {
	// Create persists a new task and fills in its generated ID and timestamps.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves the task with the given ID and owner.
	// It returns ErrTaskNotFound when no such row exists.
	FindByID(ctx context.Context, ownerID, id uint) (*entity.Task, error)

	// Update persists all mutable fields of the task and refreshes UpdatedAt.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes the task with the given ID and owner.
	// It returns ErrTaskNotFound when no row was deleted.
	Delete(ctx context.Context, ownerID, id uint) error

	// Query returns one page of tasks matching the owner and filter,
	// plus the total count of matching rows.
	Query(ctx context.Context, ownerID uint, q ListQuery) ([]entity.Task, int64, error)
}

// TaskDraft carries the caller-supplied fields for creating a task.
// DueDate arrives as a raw string so its format can be reported as a
// field error alongside the other violations.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// TaskPatch carries a partial update. Nil fields are left untouched.
// Owner, ID and CreatedAt have no counterpart here: submitting them has
// no effect rather than being an error.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
	Priority    *string
}

// TaskUsecase はタスク操作のビジネスロジックを実装します。
type TaskUsecase struct {
	tasks TaskRepository
}

// NewTaskUsecase はTaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(tasks TaskRepository) *TaskUsecase {
	return &TaskUsecase{tasks: tasks}
}

// List は認証済みユーザーのタスクを1ページ分と総件数で返します。
// identityが未解決（ownerID == 0）の場合はエラーではなく空ページを返します。
// 他のユーザーのタスクは決して結果に含まれません。
func (u *TaskUsecase) List(ctx context.Context, ownerID uint, q ListQuery) ([]entity.Task, int64, error) {
	if ownerID == 0 {
		return []entity.Task{}, 0, nil
	}
	return u.tasks.Query(ctx, ownerID, q)
}

// Create は新しいタスクを検証して永続化します。
// タイトル・期日・優先度の違反はフィールド単位で収集され、すべてまとめて返されます。
// 検証を通過するまでリポジトリには一切書き込みません。
func (u *TaskUsecase) Create(ctx context.Context, ownerID uint, draft TaskDraft) (*entity.Task, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}

	verr := validation.New()

	if strings.TrimSpace(draft.Title) == "" {
		verr.Add("title", "Title cannot be empty.")
	}

	var due time.Time
	switch {
	case draft.DueDate == "":
		verr.Add("due_date", "This field is required.")
	default:
		parsed, err := time.Parse(DateLayout, draft.DueDate)
		if err != nil {
			verr.Add("due_date", "Date must be in YYYY-MM-DD format.")
		} else if parsed.Before(startOfToday()) {
			verr.Add("due_date", "Due date cannot be in the past.")
		} else {
			due = parsed
		}
	}

	priority := entity.Priority(draft.Priority)
	if !priority.IsValid() {
		verr.Add("priority", `Priority must be one of ["low", "medium", "high"].`)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	task := &entity.Task{
		OwnerID:     ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     due,
		Priority:    priority,
	}
	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Retrieve は指定IDのタスクを返します。
// 存在しない場合と他ユーザーの所有である場合は意図的に区別せず、
// どちらもErrTaskNotFoundを返します。
func (u *TaskUsecase) Retrieve(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
	if ownerID == 0 {
		return nil, ErrTaskNotFound
	}
	return u.tasks.FindByID(ctx, ownerID, id)
}

// Update は存在するフィールドのみを検証して適用する部分更新です。
// 作成時と同じフィールド検証を再実行し、違反があれば何も永続化しません。
// owner と created_at は不変であり、変更の試みは黙って無視されます。
func (u *TaskUsecase) Update(ctx context.Context, ownerID, id uint, patch TaskPatch) (*entity.Task, error) {
	task, err := u.Retrieve(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	verr := validation.New()

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			verr.Add("title", "Title cannot be empty.")
		} else {
			task.Title = *patch.Title
		}
	}

	if patch.DueDate != nil {
		parsed, err := time.Parse(DateLayout, *patch.DueDate)
		if err != nil {
			verr.Add("due_date", "Date must be in YYYY-MM-DD format.")
		} else if parsed.Before(startOfToday()) {
			verr.Add("due_date", "Due date cannot be in the past.")
		} else {
			task.DueDate = parsed
		}
	}

	if patch.Priority != nil {
		p := entity.Priority(*patch.Priority)
		if !p.IsValid() {
			verr.Add("priority", `Priority must be one of ["low", "medium", "high"].`)
		} else {
			task.Priority = p
		}
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if err := u.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete は指定IDのタスクを削除します。
// 存在しない・所有していないIDの削除はErrTaskNotFoundであり、成功扱いにはしません。
func (u *TaskUsecase) Delete(ctx context.Context, ownerID, id uint) error {
	if ownerID == 0 {
		return ErrTaskNotFound
	}
	return u.tasks.Delete(ctx, ownerID, id)
}

// MarkComplete はタスクを完了状態へ遷移させます。
// すでに完了している場合もエラーにはせず、そのまま完了として返します。
// 逆方向の遷移はこの操作には存在せず、通常のUpdate経由でのみ行えます。
func (u *TaskUsecase) MarkComplete(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
	task, err := u.Retrieve(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Completed = true
	if err := u.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// startOfToday returns midnight of the current date in UTC, matching the
// precision due dates are stored with.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
