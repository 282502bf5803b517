package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/warehouse/output"
)

// DefaultSlowThreshold marks operations highlighted in styled reports.
const DefaultSlowThreshold = 100 * time.Millisecond

// TimingCollector records a tree of timers. Timers started with Start nest
// under the most recent open one; timers made with Child nest under their
// parent explicitly.
type TimingCollector struct {
	mu      sync.Mutex
	root    *span
	current *span

	now    func() time.Time
	styles *output.Styles
	slow   time.Duration
}

type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

// CollectorOption configures a TimingCollector.
type CollectorOption func(*TimingCollector)

// WithStyles renders reports with terminal styling.
func WithStyles(styles *output.Styles) CollectorOption {
	return func(c *TimingCollector) {
		c.styles = styles
	}
}

// WithClock replaces time.Now, for deterministic reports in tests.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *TimingCollector) {
		c.now = now
	}
}

// WithSlowThreshold sets the duration from which a styled report highlights
// an operation.
func WithSlowThreshold(d time.Duration) CollectorOption {
	return func(c *TimingCollector) {
		c.slow = d
	}
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector(opts ...CollectorOption) *TimingCollector {
	c := &TimingCollector{now: time.Now, slow: DefaultSlowThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TimingCollector) open(name string, parent *span) *span {
	s := &span{name: name, start: c.now(), parent: parent}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Start begins timing an operation under the innermost open timer.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.open(name, c.current)
	if c.root == nil {
		c.root = s
	}
	c.current = s
	return &timingTimer{collector: c, span: s}
}

// Report writes the timing tree to w. Sibling operations with the same name
// are merged into one line with a count.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	(&treeWriter{w: w, styles: c.styles, slow: c.slow}).write(c.root)
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
}

func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	t.span.end = c.now()
	if c.current == t.span && t.span.parent != nil {
		c.current = t.span.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	return &timingTimer{collector: c, span: c.open(name, t.span)}
}
