// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
)

// taskMySQL はTaskRepositoryインターフェースのMySQL実装です。
// GORMを使用してデータベース操作を行います。
type taskMySQL struct {
	db *gorm.DB
}

// taskMySQLがTaskRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TaskRepository = (*taskMySQL)(nil)

// NewTaskMySQL は指定されたgorm.DB接続でtaskMySQLの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewTaskMySQL(db *gorm.DB) *taskMySQL {
	return &taskMySQL{db: db}
}

// Create はタスクをデータベースに追加し、採番されたIDとタイムスタンプを書き戻します。
func (r *taskMySQL) Create(ctx context.Context, t *entity.Task) error {
	m := TaskModelFromEntity(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID は所有者とIDでタスクを取得します。
// 行が存在しない場合、usecase.ErrTaskNotFoundを返します。
func (r *taskMySQL) FindByID(ctx context.Context, ownerID, id uint) (*entity.Task, error) {
	var m TaskModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Update はタスクの全カラムを保存します。UpdatedAtはGORMが更新し、
// 新しい値をエンティティへ書き戻します。
func (r *taskMySQL) Update(ctx context.Context, t *entity.Task) error {
	m := TaskModelFromEntity(t)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	t.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete は所有者とIDでタスクを削除します。
// 削除対象が存在しない場合、usecase.ErrTaskNotFoundを返します。
func (r *taskMySQL) Delete(ctx context.Context, ownerID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

// Query は所有者と任意の述語でタスクを検索し、1ページ分と総件数を返します。
// 範囲外のページは空のスライスを返し、エラーにはしません。
// 並び順はid昇順をタイブレークとして、書き込みがない限りページ間で安定です。
func (r *taskMySQL) Query(ctx context.Context, ownerID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
	// CountとFindで条件を共有するため、チェーンを毎回組み立て直す
	filtered := func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)
		if q.Filter.Priority != nil {
			db = db.Where("priority = ?", string(*q.Filter.Priority))
		}
		if q.Filter.Completed != nil {
			db = db.Where("completed = ?", *q.Filter.Completed)
		}
		if q.Filter.DueDateAfter != nil {
			db = db.Where("due_date >= ?", *q.Filter.DueDateAfter)
		}
		if q.Filter.DueDateBefore != nil {
			db = db.Where("due_date <= ?", *q.Filter.DueDateBefore)
		}
		return db
	}

	var total int64
	if err := filtered(r.db.WithContext(ctx).Model(&TaskModel{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Ordering.Fieldはフィルタ評価器が許可リストで検証済み
	direction := "ASC"
	if q.Ordering.Desc {
		direction = "DESC"
	}

	var rows []TaskModel
	if err := filtered(r.db.WithContext(ctx)).
		Order(fmt.Sprintf("%s %s", q.Ordering.Field, direction)).
		Order("id ASC").
		Limit(q.Page.Size).
		Offset((q.Page.Number - 1) * q.Page.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, *m.ToEntity())
	}
	return out, total, nil
}
