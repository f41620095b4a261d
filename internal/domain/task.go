package domain

// Domain entity: one to-do entry.
// Does not depend on Gin, storage backends or transport.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64 `json:"createdAt"`
}

// Collection is the whole task list, newest first. Ids are unique.
// It is the unit of persistence: it is always stored and loaded as a whole.
type Collection []Task
