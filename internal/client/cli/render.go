package cli

import (
	"io"
	"strings"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func renderFiles(w io.Writer, files []models.FileEntry) {
	table := newTable(w, "ID", "Name", "Type", "Size", "Updated")
	for _, f := range files {
		kind, size := f.MediaType, humanize.Bytes(f.Size)
		if f.IsFolder {
			kind, size = "folder", "-"
		}
		table.Append([]string{f.ID, f.Name, kind, size, f.Updated().Local().Format(timeLayout)})
	}
	table.Render()
}

func renderNotes(w io.Writer, notes []models.Note) {
	table := newTable(w, "ID", "Title", "Tags", "Updated")
	for _, n := range notes {
		table.Append([]string{n.ID, n.Title, strings.Join(n.Tags, ", "), n.Updated().Local().Format(timeLayout)})
	}
	table.Render()
}

func renderTasks(w io.Writer, tasks []models.Task) {
	table := newTable(w, "ID", "Done", "Title", "Priority", "Due")
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		due := ""
		if d, ok := t.Due(); ok {
			due = d.Local().Format("2006-01-02")
		}
		table.Append([]string{t.ID, done, t.Title, string(t.Priority), due})
	}
	table.Render()
}

func renderStats(w io.Writer, info models.StorageInfo) {
	table := newTable(w, "Metric", "Value")
	table.Append([]string{"Files", humanize.Comma(int64(info.FileCount()))})
	table.Append([]string{"Total size", humanize.Bytes(info.TotalFileSize())})
	table.Append([]string{"Notes", humanize.Comma(int64(info.NoteCount()))})
	table.Append([]string{"Tasks", humanize.Comma(int64(info.TaskCount()))})
	table.Render()
}
