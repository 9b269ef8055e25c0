package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

func taskID(t models.Task) string { return t.ID }

// Task returns the mirrored task with the given id.
func (s *Synchronizer) Task(id string) (models.Task, bool) {
	return find(s.tasks.snapshot(), func(t models.Task) bool { return t.ID == id })
}

// CreateTask creates a task and appends the returned record to the mirror.
func (s *Synchronizer) CreateTask(ctx context.Context, d models.TaskDraft) (models.Task, error) {
	b := s.binding()
	if b.gw == nil {
		return models.Task{}, nil
	}
	if err := models.Validate(d); err != nil {
		return models.Task{}, s.fail(ctx, "create task", msgTaskCreateFailed, err)
	}

	task, err := b.gw.CreateTask(ctx, d.Title, d.Description, d.DueMillis(), d.EffectivePriority())
	if err != nil {
		return models.Task{}, s.fail(ctx, "create task", msgTaskCreateFailed, err)
	}

	s.commit(ctx, b, func() {
		s.tasks.patch(func(items []models.Task) []models.Task { return append(items, task) })
	})
	s.notifier.Success(msgTaskCreated)
	return task, nil
}

// UpdateTask updates a task and replaces the mirrored copy with the
// returned record.
func (s *Synchronizer) UpdateTask(ctx context.Context, id string, d models.TaskDraft) (models.Task, error) {
	b := s.binding()
	if b.gw == nil {
		return models.Task{}, nil
	}
	if err := models.Validate(d); err != nil {
		return models.Task{}, s.fail(ctx, "update task", msgTaskUpdateFailed, err)
	}

	task, err := b.gw.UpdateTask(ctx, id, d.Title, d.Description, d.Completed, d.DueMillis(), d.EffectivePriority())
	if err != nil {
		return models.Task{}, s.fail(ctx, "update task", msgTaskUpdateFailed, err)
	}

	s.commit(ctx, b, func() {
		s.tasks.patch(func(items []models.Task) []models.Task { return replaceByID(items, task, taskID) })
	})
	s.notifier.Success(msgTaskUpdated)
	return task, nil
}

// CompleteTask sets the completion flag of a mirrored task, keeping its
// other fields.
func (s *Synchronizer) CompleteTask(ctx context.Context, id string, done bool) (models.Task, error) {
	t, ok := s.Task(id)
	if !ok {
		s.notifier.Error(msgTaskNotFound)
		return models.Task{}, fmt.Errorf("task %s: %w", id, client.ErrNotFound)
	}

	d := models.TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		Completed:   done,
		Priority:    t.Priority,
	}
	if due, ok := t.Due(); ok {
		d.Due = &due
	}
	return s.UpdateTask(ctx, id, d)
}

// DeleteTask deletes a task and filters it out of the mirror. Deleting an
// id the mirror does not hold leaves the mirror unchanged.
func (s *Synchronizer) DeleteTask(ctx context.Context, id string) error {
	b := s.binding()
	if b.gw == nil {
		return nil
	}

	if err := b.gw.DeleteTask(ctx, id); err != nil {
		return s.fail(ctx, "delete task", msgTaskDeleteFailed, err)
	}

	s.commit(ctx, b, func() {
		s.tasks.patch(func(items []models.Task) []models.Task { return removeByID(items, id, taskID) })
	})
	s.notifier.Success(msgTaskDeleted)
	return nil
}
