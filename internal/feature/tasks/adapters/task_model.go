package adapters

import (
	"time"

	"task_backend/internal/feature/tasks/domain/entity"
)

// TaskModel is the GORM model for the tasks table.
// The composite index covers the owner predicate every query starts from
// plus the due-date range filters.
type TaskModel struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     uint      `gorm:"not null;index:idx_tasks_owner_due,priority:1"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	DueDate     time.Time `gorm:"not null;index:idx_tasks_owner_due,priority:2"`
	Completed   bool      `gorm:"not null;default:false"`
	Priority    string    `gorm:"size:10;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TaskModel) ToEntity() *entity.Task {
	return &entity.Task{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
		Priority:    entity.Priority(m.Priority),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TaskModelFromEntity converts a domain entity to a GORM model.
func TaskModelFromEntity(t *entity.Task) *TaskModel {
	return &TaskModel{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
