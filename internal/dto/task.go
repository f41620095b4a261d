package dto

type CreateTaskRequest struct {
	// Blank titles are accepted and ignored.
	Title string `json:"title" example:"Buy milk"`
}

type TaskResponse struct {
	ID        string `json:"id" example:"5f0c2a8e-8f5e-4c3a-9d61-0b7a3b1e2f44"`
	Title     string `json:"title" example:"Buy milk"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt" example:"1700000000000"`
}

// ListTasksResponse is the whole list, newest first, with the footer counters.
type ListTasksResponse struct {
	Items     []TaskResponse `json:"items"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
}
