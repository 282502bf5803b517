// Package errors provides error formatting infrastructure for warehouse errors.
// It separates error formatting from domain logic, allowing errors to be rendered in
// multiple formats (text, JSON) for different consumers (terminal, scripts).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output, quoting the offending row
//   - JSONFormatter: Formats errors as structured JSON for scripts and monitoring
//
// Domain-specific error types remain in their respective packages (e.g., ledger),
// while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/store"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// Rows holds the persisted data rows of each collection, header excluded,
// keyed by collection name.
type Rows map[string][][]string

// row returns the data row at a 1-based line, if known.
func (r Rows) row(collection string, line int) ([]string, bool) {
	rows := r[collection]
	if line < 1 || line > len(rows) {
		return nil, false
	}
	return rows[line-1], true
}

// location returns the collection and 1-based data row err points at.
func location(err error) (string, int, bool) {
	var rowErr *ledger.RowError
	if stderrors.As(err, &rowErr) {
		return rowErr.Collection, rowErr.Line, true
	}
	var invErr *ledger.InvariantError
	if stderrors.As(err, &invErr) {
		return invErr.Collection, invErr.Index + 1, true
	}
	return "", 0, false
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	rows Rows
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithRows sets the persisted rows quoted under errors that point at one.
func WithRows(rows Rows) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.rows = rows
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors pointing at a known row are followed
// by that row, indented by three spaces.
func (tf *TextFormatter) Format(err error) string {
	collection, line, ok := location(err)
	if !ok {
		return err.Error()
	}
	row, ok := tf.rows.row(collection, line)
	if !ok {
		return err.Error()
	}
	return tf.formatWithRow(err.Error(), row)
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (tf *TextFormatter) formatWithRow(message string, row []string) string {
	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n   ")
	buf.WriteString(strings.Join(row, ","))
	buf.WriteByte('\n')
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message"`
	Location *LocationJSON          `json:"location,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// LocationJSON points at a persisted row.
type LocationJSON struct {
	Collection string `json:"collection"`
	Row        int    `json:"row"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	errJSON := jf.toJSON(err)
	data, _ := json.Marshal(errJSON)
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	jsonErrors := jf.FormatAllToSlice(errs)
	data, _ := json.MarshalIndent(jsonErrors, "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	if collection, line, ok := location(err); ok {
		errJSON.Location = &LocationJSON{Collection: collection, Row: line}
	}

	var (
		rowErr       *ledger.RowError
		insufficient *ledger.InsufficientQuantityError
		notFound     *ledger.ItemNotFoundError
		mismatch     *store.HeaderMismatchError
	)
	switch {
	case stderrors.As(err, &rowErr):
		if rowErr.Field != "" {
			errJSON.Details["field"] = rowErr.Field
		}
	case stderrors.As(err, &insufficient):
		errJSON.Details["item"] = insufficient.Name
		errJSON.Details["available"] = insufficient.Available.String()
		errJSON.Details["requested"] = insufficient.Requested.String()
	case stderrors.As(err, &notFound):
		errJSON.Details["item"] = notFound.Name
	case stderrors.As(err, &mismatch):
		errJSON.Details["collection"] = string(mismatch.Collection)
		errJSON.Details["header"] = []string(mismatch.Got)
		errJSON.Details["expected"] = []string(mismatch.Want)
	}

	return errJSON
}
