// Package usecase はtasksフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrTaskNotFound is returned when no task visible to the caller matches the given ID.
	// A task owned by another user yields the same error as a missing one,
	// so the response never confirms that a record exists.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnauthenticated is returned when a mutating operation is attempted
	// without a resolved identity.
	ErrUnauthenticated = errors.New("authentication required")
)
