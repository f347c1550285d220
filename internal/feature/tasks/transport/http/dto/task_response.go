package dto

// TaskItem is the JSON representation of a single task.
// Owner is the owning user's username and is read-only.
type TaskItem struct {
	ID          uint   `json:"id"`
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskPage is the page envelope for GET /tasks: the total matching count,
// links to the adjacent pages (null when there is none) and one page of
// results.
type TaskPage struct {
	Count    int64      `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []TaskItem `json:"results"`
}

// StatusRes is the body returned by the mark_complete endpoint.
type StatusRes struct {
	Status string `json:"status"`
}
