// Package dto はtasksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CreateTaskReq represents the request body for POST /tasks.
// Field validation happens in the usecase so every violation is reported
// per field at once, which binding tags cannot do.
type CreateTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

// UpdateTaskReq represents the request body for PUT/PATCH /tasks/:id.
// Pointer fields distinguish "absent" from "set to the zero value".
// owner, id and the timestamps are not bindable here: submitting them
// has no effect.
type UpdateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
}
