package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shopos/cli/internal/ui/components"
)

// --- Toasts ---

const (
	toastInfo    = "info"
	toastSuccess = "success"
	toastWarning = "warning"
	toastError   = "error"

	defaultToastDuration = 2500 * time.Millisecond
	errorToastDuration   = 5 * time.Second
)

type appToast struct {
	id       int
	level    string
	title    string
	text     string
	duration time.Duration
}

// toastMsg asks the app to show a toast. Sub-models return it instead of
// touching app state.
type toastMsg struct {
	level string
	title string
	text  string
}

type clearToastMsg struct{ id int }

func toastCmd(level, title, text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{level: level, title: title, text: text}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	return a.pushToast(level, "", text)
}

func (a *App) pushToast(level, title, text string) tea.Cmd {
	if title == "" {
		title = toastTitle(level)
	}
	duration := defaultToastDuration
	if level == toastError {
		duration = errorToastDuration
	}
	a.toastSeq++
	a.toast = &appToast{
		id:       a.toastSeq,
		level:    level,
		title:    components.SanitizeOneLine(title),
		text:     components.SanitizeOneLine(text),
		duration: duration,
	}
	id := a.toastSeq
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

func toastTitle(level string) string {
	switch level {
	case toastSuccess:
		return "Success"
	case toastWarning:
		return "Warning"
	case toastError:
		return "Error"
	}
	return "Info"
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	if a.toast.level == toastError {
		return components.ErrorBox(a.toast.title, a.toast.text, a.width)
	}
	return components.TitledBox(a.toast.title, a.toast.text, a.width)
}

// ErrorMessage extracts a display message from err, dropping an upper-case
// error code prefix. fallback is used when nothing usable remains.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	text := strings.TrimSpace(err.Error())
	if _, msg := parseErrorCodeAndMessage(text); msg != "" {
		text = msg
	}
	if text == "" {
		return fallback
	}
	return text
}

func parseErrorCodeAndMessage(errText string) (string, string) {
	text := strings.TrimSpace(errText)
	if text == "" {
		return "", ""
	}
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return "", text
	}
	code := strings.TrimSpace(parts[0])
	if code == "" || strings.HasPrefix(strings.ToUpper(code), "HTTP ") {
		return "", text
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", text
		}
	}
	return code, strings.TrimSpace(parts[1])
}
