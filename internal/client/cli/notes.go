package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

func (a *App) Notes(ctx context.Context) error {
	notes := a.syncer.Notes()
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes yet")
		return nil
	}
	renderNotes(a.out, notes)
	return nil
}

// ShowNote prints a single note with its content.
func (a *App) ShowNote(ctx context.Context, id string) error {
	n, ok := a.syncer.Note(id)
	if !ok {
		fmt.Fprintf(a.out, "No such note: %s\n", id)
		return client.ErrNotFound
	}
	fmt.Fprintf(a.out, "%s\n", n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(a.out, "tags: %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Fprintf(a.out, "\n%s\n", n.Content)
	return nil
}

func (a *App) AddNote(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	tags, err := GetSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	_, err = a.syncer.CreateNote(ctx, models.NoteDraft{
		Title:   title,
		Content: content,
		Tags:    parseTags(tags),
	})
	return err
}

// EditNote prompts for new values; an empty answer keeps the current one.
func (a *App) EditNote(ctx context.Context, id string) error {
	n, ok := a.syncer.Note(id)
	if !ok {
		fmt.Fprintf(a.out, "No such note: %s\n", id)
		return client.ErrNotFound
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", n.Title), a.out)
	if err != nil {
		return err
	}
	tags, err := GetSimpleText(a.reader, fmt.Sprintf("Tags [%s]", strings.Join(n.Tags, ", ")), a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	draft := models.NoteDraft{Title: n.Title, Content: n.Content, Tags: n.Tags}
	if title != "" {
		draft.Title = title
	}
	if tags != "" {
		draft.Tags = parseTags(tags)
	}
	if content != "" {
		draft.Content = content
	}

	_, err = a.syncer.UpdateNote(ctx, id, draft)
	return err
}

func (a *App) RemoveNote(ctx context.Context, id string) error {
	return a.syncer.DeleteNote(ctx, id)
}
