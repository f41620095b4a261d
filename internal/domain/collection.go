package domain

import "strings"

// Operations below never modify their input; each returns a fresh slice.

// Add prepends a new incomplete task. A title that is blank after trimming is
// rejected: c is returned as is and ok is false.
func Add(c Collection, title, id string, createdAt int64) (next Collection, ok bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return c, false
	}
	next = make(Collection, 0, len(c)+1)
	next = append(next, Task{ID: id, Title: title, CreatedAt: createdAt})
	next = append(next, c...)
	return next, true
}

// Toggle inverts the completed flag of the task with the given id.
// An unknown id yields a copy with identical content.
func Toggle(c Collection, id string) Collection {
	next := make(Collection, len(c))
	copy(next, c)
	for i := range next {
		if next[i].ID == id {
			next[i].Completed = !next[i].Completed
			break
		}
	}
	return next
}

// Delete removes the task with the given id. Unknown ids are ignored.
func Delete(c Collection, id string) Collection {
	return filter(c, func(t Task) bool { return t.ID != id })
}

// ClearCompleted keeps only incomplete tasks, preserving their order.
func ClearCompleted(c Collection) Collection {
	return filter(c, func(t Task) bool { return !t.Completed })
}

// Find returns the task with the given id.
func Find(c Collection, id string) (Task, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Stats returns how many tasks are completed out of the total.
func Stats(c Collection) (completed, total int) {
	for _, t := range c {
		if t.Completed {
			completed++
		}
	}
	return completed, len(c)
}

// Dedupe drops tasks whose id was already seen; the first occurrence wins.
func Dedupe(c Collection) Collection {
	seen := make(map[string]struct{}, len(c))
	return filter(c, func(t Task) bool {
		if _, dup := seen[t.ID]; dup {
			return false
		}
		seen[t.ID] = struct{}{}
		return true
	})
}

func filter(c Collection, keep func(Task) bool) Collection {
	next := make(Collection, 0, len(c))
	for _, t := range c {
		if keep(t) {
			next = append(next, t)
		}
	}
	return next
}
