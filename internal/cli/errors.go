package cli

import "fmt"

// InvalidTaskIDError reports a task id outside the 1-based collection range.
type InvalidTaskIDError struct {
	ID  int
	Max int
}

func (e *InvalidTaskIDError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("invalid task id %d: the list is empty", e.ID)
	}
	return fmt.Sprintf("invalid task id %d: must be between 1 and %d", e.ID, e.Max)
}

// AlreadyInStatusError reports a done/undone call on a task that is
// already in the requested state. The transition is refused, not silently
// absorbed.
type AlreadyInStatusError struct {
	ID     int
	Status string
}

func (e *AlreadyInStatusError) Error() string {
	return fmt.Sprintf("task %d is already %s", e.ID, e.Status)
}
