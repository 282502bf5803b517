package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// InputError reports user input that could not be turned into the value an
// operation needs. It never reaches the ledger.
type InputError struct {
	Field string
	Input string
	Err   error
}

func (e *InputError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %q %v", e.Field, e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

var (
	errNotANumber = errors.New("is not a number")
	errRequired   = errors.New("is required")
)

// parseDecimal reads a decimal typed by the user.
func parseDecimal(field, input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, &InputError{Field: field, Err: errRequired}
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &InputError{Field: field, Input: s, Err: errNotANumber}
	}
	return v, nil
}

// parseOptionalDecimal is parseDecimal where blank means "not given".
func parseOptionalDecimal(field, input string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(input) == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := parseDecimal(field, input)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(v), nil
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &InputError{Field: field, Err: errRequired}
		}
		return nil
	}
}

func requireDecimal(field string) func(string) error {
	return func(s string) error {
		_, err := parseDecimal(field, s)
		return err
	}
}

func optionalDecimal(field string) func(string) error {
	return func(s string) error {
		_, err := parseOptionalDecimal(field, s)
		return err
	}
}

// Prompter collects input for the interactive session.
type Prompter interface {
	// Menu asks for the next operation.
	Menu(ops []Operation) (Operation, error)

	// Input asks for one line of text until validate accepts it.
	Input(title string, validate func(string) error) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
}

// huhPrompter prompts with huh forms on a terminal.
type huhPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

func (p *huhPrompter) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(false).
		Run()
}

func (p *huhPrompter) Menu(ops []Operation) (Operation, error) {
	options := make([]huh.Option[Operation], 0, len(ops))
	for _, op := range ops {
		options = append(options, huh.NewOption(op.Label(), op))
	}

	var op Operation
	err := p.run(huh.NewSelect[Operation]().
		Title("Choose an operation").
		Options(options...).
		Value(&op))
	return op, err
}

func (p *huhPrompter) Input(title string, validate func(string) error) (string, error) {
	var value string
	err := p.run(huh.NewInput().
		Title(title).
		Validate(validate).
		Value(&value))
	return value, err
}

func (p *huhPrompter) Confirm(title string) (bool, error) {
	var confirm bool
	err := p.run(huh.NewConfirm().
		Title(title).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm))
	return confirm, err
}

// linePrompter reads plain lines, for pipes and scripts. It returns io.EOF
// once the input is exhausted.
type linePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *linePrompter) readLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		_, _ = fmt.Fprintln(p.out)
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *linePrompter) Menu(ops []Operation) (Operation, error) {
	for {
		_, _ = fmt.Fprintln(p.out)
		for i, op := range ops {
			_, _ = fmt.Fprintf(p.out, "%d. %s\n", i+1, op.Label())
		}
		line, err := p.readLine("Choose an operation: ")
		if err != nil {
			return 0, err
		}

		line = strings.TrimSpace(line)
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(ops) {
			return ops[n-1], nil
		}
		if op, err := ParseOperation(line); err == nil {
			return op, nil
		}
		printError(p.out, "Invalid option. Try again.")
	}
}

func (p *linePrompter) Input(title string, validate func(string) error) (string, error) {
	for {
		line, err := p.readLine(title + ": ")
		if err != nil {
			return "", err
		}
		if validate == nil {
			return line, nil
		}
		if err := validate(line); err != nil {
			printError(p.out, err.Error())
			continue
		}
		return line, nil
	}
}

func (p *linePrompter) Confirm(title string) (bool, error) {
	line, err := p.readLine(title + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
