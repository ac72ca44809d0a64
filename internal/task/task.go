// Package task defines the task model and read-only views over a collection.
package task

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority represents a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority parses a priority string, accepting any letter case.
func ParsePriority(input string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(input))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("invalid priority %q, must be one of: high, medium, low", input)
	}
}

// Rank returns the sort rank of a priority. High sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the three defined priorities.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// dateLayout is the on-disk and CLI date format.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time component and no timezone.
type Date struct {
	t time.Time
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(input string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(input))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", input)
	}
	return Date{t: t}, nil
}

// Today returns the current calendar date in local time.
func Today() Date {
	now := time.Now()
	return Date{t: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewDate builds a date from year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single to-do item.
type Task struct {
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Tags      []string `json:"tags"`
	DueDate   *Date    `json:"due_date"`
	CreatedAt Date     `json:"created_at"`
}

// New creates a pending task with the given text, created today.
// Priority defaults to medium when empty.
func New(text string, priority Priority, tags []string, due *Date) Task {
	if priority == "" {
		priority = PriorityMedium
	}
	if tags == nil {
		tags = []string{}
	}
	return Task{
		Text:      text,
		Completed: false,
		Priority:  priority,
		Tags:      tags,
		DueDate:   due,
		CreatedAt: Today(),
	}
}

// HasTag reports whether the task carries the exact tag (case-sensitive).
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// TagCount is a distinct tag with the number of tasks carrying it.
type TagCount struct {
	Name  string
	Count int
}

// TagCounts returns the distinct tags across all tasks with per-task counts,
// sorted alphabetically. A tag repeated inside one task is counted once.
func TagCounts(tasks []Task) []TagCount {
	counts := make(map[string]int)
	for i := range tasks {
		seen := make(map[string]bool)
		for _, tag := range tasks[i].Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			counts[tag]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, TagCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
