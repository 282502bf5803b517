package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/store"
)

var (
	errHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and, where the error
// carries enough context, a hint on how to fix it.
type ErrorRenderer struct {
	dataDir string
}

// NewErrorRenderer creates a renderer. dataDir is mentioned in hints about
// unreadable files.
func NewErrorRenderer(dataDir string) *ErrorRenderer {
	return &ErrorRenderer{dataDir: dataDir}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var buf strings.Builder
	buf.WriteString(errorStyle.Render(err.Error()))

	if hint := r.hint(err); hint != "" {
		buf.WriteString("\n   ")
		buf.WriteString(errHintStyle.Render(hint))
	}

	var rowErr *ledger.RowError
	if errors.As(err, &rowErr) {
		buf.WriteString("\n   ")
		buf.WriteString(errContextStyle.Render(r.rowLocation(rowErr)))
	}

	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) hint(err error) string {
	var (
		insufficient *ledger.InsufficientQuantityError
		notFound     *ledger.ItemNotFoundError
		input        *InputError
	)
	switch {
	case errors.As(err, &input):
		return "enter a number such as 12 or 3.75"
	case errors.As(err, &insufficient):
		return fmt.Sprintf("at most %s can be taken", insufficient.Available)
	case errors.As(err, &notFound):
		return "purchase the item first, or check the inventory for its exact name"
	case errors.Is(err, ledger.ErrEmptyDestination):
		return "a shipment needs somewhere to go"
	case errors.Is(err, store.ErrPersistence):
		return fmt.Sprintf("check that %s is writable; the session data is kept in memory", r.dataDir)
	}
	return ""
}

func (r *ErrorRenderer) rowLocation(e *ledger.RowError) string {
	file := store.FileNames[store.Collection(e.Collection)]
	if file == "" {
		file = e.Collection
	}
	// Line counts data rows; the header is line 1 of the file.
	return fmt.Sprintf("at %s line %d", file, e.Line+1)
}
