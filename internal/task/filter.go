package task

import (
	"fmt"
	"sort"
	"strings"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPending StatusFilter = "pending"
	StatusDone    StatusFilter = "done"
)

// ParseStatusFilter parses a status filter string.
func ParseStatusFilter(input string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(input))) {
	case StatusAll, "":
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusDone:
		return StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status %q, must be one of: all, pending, done", input)
	}
}

// DueFilter selects tasks by their due window relative to today.
type DueFilter string

const (
	DueAny     DueFilter = ""
	DueOverdue DueFilter = "overdue"
	DueSoon    DueFilter = "soon"
	DueWithDue DueFilter = "with-due"
	DueNoDue   DueFilter = "no-due"
)

// soonWindowDays is how far ahead the "soon" window reaches.
const soonWindowDays = 7

// ParseDueFilter parses a due filter string.
func ParseDueFilter(input string) (DueFilter, error) {
	switch DueFilter(strings.ToLower(strings.TrimSpace(input))) {
	case DueAny:
		return DueAny, nil
	case DueOverdue:
		return DueOverdue, nil
	case DueSoon:
		return DueSoon, nil
	case DueWithDue:
		return DueWithDue, nil
	case DueNoDue:
		return DueNoDue, nil
	default:
		return "", fmt.Errorf("invalid due filter %q, must be one of: overdue, soon, with-due, no-due", input)
	}
}

// SortKey orders a filtered view.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPriority SortKey = "priority"
	SortDue      SortKey = "due"
	SortCreated  SortKey = "created"
)

// ParseSortKey parses a sort key string.
func ParseSortKey(input string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(input))) {
	case SortNone:
		return SortNone, nil
	case SortPriority:
		return SortPriority, nil
	case SortDue:
		return SortDue, nil
	case SortCreated:
		return SortCreated, nil
	default:
		return "", fmt.Errorf("invalid sort key %q, must be one of: priority, due, created", input)
	}
}

// Query is one combination of filter and sort options.
// Single-valued fields make conflicting selections unrepresentable.
type Query struct {
	Status   StatusFilter
	Priority Priority // empty means any
	Tag      string   // empty means any
	Due      DueFilter
	Sort     SortKey
}

// View pairs a task with its original 1-based position in the full
// collection. Positions survive filtering and sorting unchanged so that
// id-addressed commands keep targeting the right record.
type View struct {
	Position int
	Task     Task
}

// Filter computes the read-only view of tasks matching q, relative to today.
// Tasks are tagged with their position first and never renumbered. The input
// slice is not modified.
func Filter(tasks []Task, q Query, today Date) []View {
	views := make([]View, 0, len(tasks))
	for i := range tasks {
		if !matches(&tasks[i], q, today) {
			continue
		}
		views = append(views, View{Position: i + 1, Task: tasks[i]})
	}
	sortViews(views, q.Sort)
	return views
}

func matches(t *Task, q Query, today Date) bool {
	switch q.Status {
	case StatusPending:
		if t.Completed {
			return false
		}
	case StatusDone:
		if !t.Completed {
			return false
		}
	}

	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}

	if q.Tag != "" && !t.HasTag(q.Tag) {
		return false
	}

	switch q.Due {
	case DueOverdue:
		if t.DueDate == nil || !t.DueDate.Before(today) || t.Completed {
			return false
		}
	case DueSoon:
		if t.DueDate == nil || t.DueDate.Before(today) || t.DueDate.After(today.AddDays(soonWindowDays)) {
			return false
		}
	case DueWithDue:
		if t.DueDate == nil {
			return false
		}
	case DueNoDue:
		if t.DueDate != nil {
			return false
		}
	}

	return true
}

// sortViews orders views by key. Sorting is stable so equal tasks keep
// their original relative order. No key means original order.
func sortViews(views []View, key SortKey) {
	switch key {
	case SortPriority:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Task.Priority.Rank() < views[j].Task.Priority.Rank()
		})
	case SortDue:
		sort.SliceStable(views, func(i, j int) bool {
			a, b := views[i].Task.DueDate, views[j].Task.DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortCreated:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Task.CreatedAt.Before(views[j].Task.CreatedAt)
		})
	}
}

// Search returns the tasks whose text contains term as a case-insensitive
// substring, optionally narrowed to an exact (case-sensitive) tag match.
// Positions are preserved exactly as Filter does.
func Search(tasks []Task, term, tag string) []View {
	needle := strings.ToLower(term)
	views := make([]View, 0)
	for i := range tasks {
		if !strings.Contains(strings.ToLower(tasks[i].Text), needle) {
			continue
		}
		if tag != "" && !tasks[i].HasTag(tag) {
			continue
		}
		views = append(views, View{Position: i + 1, Task: tasks[i]})
	}
	return views
}
