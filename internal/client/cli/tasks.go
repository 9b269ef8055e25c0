package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

const dateLayout = "2006-01-02"

func (a *App) Tasks(ctx context.Context) error {
	tasks := a.syncer.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet")
		return nil
	}
	renderTasks(a.out, tasks)
	return nil
}

func (a *App) AddTask(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	due, err := a.promptDue("Due date (YYYY-MM-DD, empty for none)", nil)
	if err != nil {
		return err
	}
	priority, err := a.promptPriority("Priority (low/medium/high)", "")
	if err != nil {
		return err
	}

	_, err = a.syncer.CreateTask(ctx, models.TaskDraft{
		Title:       title,
		Description: description,
		Due:         due,
		Priority:    priority,
	})
	return err
}

// EditTask prompts for new values; an empty answer keeps the current one.
func (a *App) EditTask(ctx context.Context, id string) error {
	t, ok := a.syncer.Task(id)
	if !ok {
		fmt.Fprintf(a.out, "No such task: %s\n", id)
		return client.ErrNotFound
	}

	draft := models.TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
	}
	if d, ok := t.Due(); ok {
		draft.Due = &d
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", t.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		draft.Title = title
	}
	description, err := GetSimpleText(a.reader, fmt.Sprintf("Description [%s]", t.Description), a.out)
	if err != nil {
		return err
	}
	if description != "" {
		draft.Description = description
	}
	if draft.Due, err = a.promptDue("Due date (YYYY-MM-DD, '-' to clear)", draft.Due); err != nil {
		return err
	}
	if draft.Priority, err = a.promptPriority(fmt.Sprintf("Priority [%s]", t.Priority), t.Priority); err != nil {
		return err
	}

	_, err = a.syncer.UpdateTask(ctx, id, draft)
	return err
}

// CompleteTask flips the completion flag of a task.
func (a *App) CompleteTask(ctx context.Context, id string) error {
	done := true
	if t, ok := a.syncer.Task(id); ok {
		done = !t.Completed
	}
	_, err := a.syncer.CompleteTask(ctx, id, done)
	return err
}

func (a *App) RemoveTask(ctx context.Context, id string) error {
	return a.syncer.DeleteTask(ctx, id)
}

func (a *App) promptDue(prompt string, current *time.Time) (*time.Time, error) {
	for {
		s, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return nil, err
		}
		switch s {
		case "":
			return current, nil
		case "-":
			return nil, nil
		}
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			fmt.Fprintln(a.out, "Invalid date, expected YYYY-MM-DD")
			continue
		}
		return &d, nil
	}
}

func (a *App) promptPriority(prompt string, current models.Priority) (models.Priority, error) {
	for {
		s, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if s == "" && current != "" {
			return current, nil
		}
		p, err := models.ParsePriority(s)
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		return p, nil
	}
}
