package usecase

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/shared/validation"
)

const (
	// DateLayout is the wire format for due dates.
	DateLayout = "2006-01-02"

	// DefaultPageSize は page_size 未指定時の1ページあたりの件数です。
	DefaultPageSize = 10
	// MaxPageSize は page_size で要求できる上限です。
	MaxPageSize = 100
)

// Orderable list query fields. Anything else is rejected, never silently ignored.
const (
	OrderByCreatedAt = "created_at"
	OrderByDueDate   = "due_date"
)

// TaskFilter holds the optional predicates of a list query.
// A nil field means "no constraint", not "match the default value".
// All non-nil predicates combine with logical AND.
type TaskFilter struct {
	Priority      *entity.Priority
	Completed     *bool
	DueDateAfter  *time.Time // inclusive lower bound
	DueDateBefore *time.Time // inclusive upper bound
}

// Ordering names the sort key of a list query.
type Ordering struct {
	Field string
	Desc  bool
}

// Page is an offset pagination request. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// ListQuery is the validated form of the /tasks query string.
type ListQuery struct {
	Filter   TaskFilter
	Ordering Ordering
	Page     Page
}

// ParseListQuery は/tasksのクエリパラメータを検証済みのListQueryへ変換します。
// 認識済みパラメータの値のみ検証し、未知のパラメータは無視します。
// 不正な値はフィールド単位で収集され、すべてまとめて返されます。
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{
		Ordering: Ordering{Field: OrderByCreatedAt},
		Page:     Page{Number: 1, Size: DefaultPageSize},
	}
	verr := validation.New()

	if raw := values.Get("priority"); raw != "" {
		p := entity.Priority(raw)
		if !p.IsValid() {
			verr.Add("priority", `Priority must be one of ["low", "medium", "high"].`)
		} else {
			q.Filter.Priority = &p
		}
	}

	if raw := values.Get("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			verr.Add("completed", "Completed must be a boolean value.")
		} else {
			q.Filter.Completed = &b
		}
	}

	if raw := values.Get("due_date_after"); raw != "" {
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			verr.Add("due_date_after", "Date must be in YYYY-MM-DD format.")
		} else {
			q.Filter.DueDateAfter = &t
		}
	}

	if raw := values.Get("due_date_before"); raw != "" {
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			verr.Add("due_date_before", "Date must be in YYYY-MM-DD format.")
		} else {
			q.Filter.DueDateBefore = &t
		}
	}

	if raw := values.Get("ordering"); raw != "" {
		field := strings.TrimPrefix(raw, "-")
		switch field {
		case OrderByDueDate, OrderByCreatedAt:
			q.Ordering = Ordering{Field: field, Desc: strings.HasPrefix(raw, "-")}
		default:
			verr.Add("ordering", `Ordering must be "due_date" or "created_at", optionally prefixed with "-".`)
		}
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr.Add("page", "Page must be a positive integer.")
		} else {
			q.Page.Number = n
		}
	}

	if raw := values.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr.Add("page_size", "Page size must be a positive integer.")
		} else {
			if n > MaxPageSize {
				n = MaxPageSize
			}
			q.Page.Size = n
		}
	}

	if verr.HasErrors() {
		return ListQuery{}, verr
	}
	return q, nil
}
