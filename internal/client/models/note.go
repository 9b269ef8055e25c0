package models

import (
	"time"

	"github.com/dmitrijs2005/zeroos/internal/timex"
)

// Note is a titled text record. Tags keep their stored order and may repeat.
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Owner     string   `json:"owner"`
	CreatedAt uint64   `json:"created_at"`
	UpdatedAt uint64   `json:"updated_at"`
}

func (n Note) Updated() time.Time { return timex.FromNanos(n.UpdatedAt) }

// NoteDraft carries user input for creating or updating a note.
type NoteDraft struct {
	Title   string   `validate:"required"`
	Content string
	Tags    []string `validate:"dive,required"`
}
