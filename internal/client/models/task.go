package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/timex"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts low/medium/high in any case; empty input means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
	}
}

// Task is a to-do record. DueDate is a millisecond epoch.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	CreatedAt   uint64   `json:"created_at"`
	UpdatedAt   uint64   `json:"updated_at"`
	DueDate     *uint64  `json:"due_date"`
	Owner       string   `json:"owner"`
	Priority    Priority `json:"priority"`
}

// Due returns the due date, if any.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(*t.DueDate)), true
}

// TaskDraft carries user input for creating or updating a task. Completed
// is ignored on create.
type TaskDraft struct {
	Title       string `validate:"required"`
	Description string
	Completed   bool
	Due         *time.Time
	Priority    Priority `validate:"omitempty,oneof=low medium high"`
}

// DueMillis converts Due to the wire representation.
func (d TaskDraft) DueMillis() *uint64 {
	if d.Due == nil {
		return nil
	}
	ms := timex.ToMillis(*d.Due)
	return &ms
}

// EffectivePriority applies the medium default.
func (d TaskDraft) EffectivePriority() Priority {
	if d.Priority == "" {
		return PriorityMedium
	}
	return d.Priority
}
