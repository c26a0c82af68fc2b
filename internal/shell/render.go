package shell

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
)

const tableWidth = 80

// RenderTasks prints tasks as a fixed-width table.
func RenderTasks(w io.Writer, tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	fmt.Fprintf(w, "%-4s %-30s %-10s %-20s %s\n", "ID", "Title", "Status", "Created At", "Description")
	fmt.Fprintln(w, strings.Repeat("-", tableWidth))
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(w, "%-4d %-30s %-10s %-20s %s\n",
			t.ID,
			truncate(t.Title, 30, 27),
			t.Status(),
			formatTimestamp(t.CreatedAt.String()),
			truncate(t.Description, 30, 30),
		)
	}
}

// FilterTasks keeps tasks whose status label equals status; empty keeps all.
func FilterTasks(tasks []domain.Task, status string) []domain.Task {
	if status == "" {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Status() == status {
			out = append(out, tasks[i])
		}
	}
	return out
}

// FormatNotification renders a notification as a single line.
func FormatNotification(n domain.Notification) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Kind)), n.Message)
}

// truncate cuts s to keep runes plus an ellipsis once it exceeds limit runes.
func truncate(s string, limit, keep int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:keep]) + "..."
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func formatTimestamp(raw string) string {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("2006-01-02 15:04")
		}
	}
	return raw
}

// RenderStatus prints the health of the backend and the token store.
func RenderStatus(w io.Writer, st monitor.Status) {
	fmt.Fprintf(w, "Backend:     %s\n", health(st.Backend, st.BackendErr))
	fmt.Fprintf(w, "Token store: %s\n", health(st.Store, st.StoreErr))
	if st.Checked() {
		fmt.Fprintf(w, "Checked at:  %s\n", st.LastCheck.Format(time.RFC3339))
	}
}

func health(ok bool, detail string) string {
	if ok {
		return "ok"
	}
	if detail == "" {
		return "unavailable"
	}
	return "unavailable (" + detail + ")"
}
