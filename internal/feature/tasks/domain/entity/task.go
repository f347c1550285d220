// Package entity defines the domain models for the tasks feature.
package entity

import "time"

// Priority classifies how urgent a task is.
type Priority string

// The three priority levels a task can carry.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a to-do item owned by exactly one user.
// OwnerID is set once at creation and never changes afterwards; all
// visibility and mutation rights derive from it.
type Task struct {
	ID          uint
	OwnerID     uint
	Title       string
	Description string
	DueDate     time.Time // date precision, stored as midnight UTC
	Completed   bool
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
