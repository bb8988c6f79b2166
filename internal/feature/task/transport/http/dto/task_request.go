// Package dto defines data transfer objects for the task feature's HTTP transport layer.
package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	IsImportant bool     `json:"isImportant"`
}

// UpdateTaskRequest represents the request body for PUT /tasks/:id.
// Absent fields are nil and left unchanged; an empty dueDate clears it.
type UpdateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"dueDate"`
	Priority    *string  `json:"priority"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
	IsImportant *bool    `json:"isImportant"`
}
