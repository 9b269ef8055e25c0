package services

import (
	"context"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/samber/lo"
)

func find[T any](items []T, pred func(T) bool) (T, bool) {
	return lo.Find(items, pred)
}

// replaceByID swaps the item whose id matches rec's for rec.
func replaceByID[T any](items []T, rec T, id func(T) string) []T {
	return lo.Map(items, func(it T, _ int) T {
		if id(it) == id(rec) {
			return rec
		}
		return it
	})
}

// removeByID drops items with the given id, keeping the others in order.
func removeByID[T any](items []T, target string, id func(T) string) []T {
	return lo.Filter(items, func(it T, _ int) bool { return id(it) != target })
}

func noteID(n models.Note) string { return n.ID }

func tagsOf(d models.NoteDraft) []string {
	if d.Tags == nil {
		return []string{}
	}
	return d.Tags
}

// Note returns the mirrored note with the given id.
func (s *Synchronizer) Note(id string) (models.Note, bool) {
	return find(s.notes.snapshot(), func(n models.Note) bool { return n.ID == id })
}

// CreateNote creates a note and appends the returned record to the mirror.
func (s *Synchronizer) CreateNote(ctx context.Context, d models.NoteDraft) (models.Note, error) {
	b := s.binding()
	if b.gw == nil {
		return models.Note{}, nil
	}
	if err := models.Validate(d); err != nil {
		return models.Note{}, s.fail(ctx, "create note", msgNoteCreateFailed, err)
	}

	note, err := b.gw.CreateNote(ctx, d.Title, d.Content, tagsOf(d))
	if err != nil {
		return models.Note{}, s.fail(ctx, "create note", msgNoteCreateFailed, err)
	}

	s.commit(ctx, b, func() {
		s.notes.patch(func(items []models.Note) []models.Note { return append(items, note) })
	})
	s.notifier.Success(msgNoteCreated)
	return note, nil
}

// UpdateNote updates a note and replaces the mirrored copy with the
// returned record.
func (s *Synchronizer) UpdateNote(ctx context.Context, id string, d models.NoteDraft) (models.Note, error) {
	b := s.binding()
	if b.gw == nil {
		return models.Note{}, nil
	}
	if err := models.Validate(d); err != nil {
		return models.Note{}, s.fail(ctx, "update note", msgNoteUpdateFailed, err)
	}

	note, err := b.gw.UpdateNote(ctx, id, d.Title, d.Content, tagsOf(d))
	if err != nil {
		return models.Note{}, s.fail(ctx, "update note", msgNoteUpdateFailed, err)
	}

	s.commit(ctx, b, func() {
		s.notes.patch(func(items []models.Note) []models.Note { return replaceByID(items, note, noteID) })
	})
	s.notifier.Success(msgNoteUpdated)
	return note, nil
}

// DeleteNote deletes a note and filters it out of the mirror.
func (s *Synchronizer) DeleteNote(ctx context.Context, id string) error {
	b := s.binding()
	if b.gw == nil {
		return nil
	}

	if err := b.gw.DeleteNote(ctx, id); err != nil {
		return s.fail(ctx, "delete note", msgNoteDeleteFailed, err)
	}

	s.commit(ctx, b, func() {
		s.notes.patch(func(items []models.Note) []models.Note { return removeByID(items, id, noteID) })
	})
	s.notifier.Success(msgNoteDeleted)
	return nil
}
