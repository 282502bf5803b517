package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/warehouse/output"
)

// group is one report line: every sibling span sharing a name.
type group struct {
	name     string
	count    int
	total    time.Duration
	children []*span
}

// groupSpans merges siblings by name, in order of first appearance. The
// children of merged spans are pooled so they merge one level down too.
func groupSpans(spans []*span) []*group {
	var groups []*group
	byName := make(map[string]*group, len(spans))
	for _, s := range spans {
		g, ok := byName[s.name]
		if !ok {
			g = &group{name: s.name}
			byName[s.name] = g
			groups = append(groups, g)
		}
		g.count++
		g.total += s.duration()
		g.children = append(g.children, s.children...)
	}
	return groups
}

// treeWriter prints the timing tree:
//
//	warehouse run: 1.42s
//	├─ loader.load: 12ms
//	│  ├─ store.load inventory: 3ms
//	│  └─ store.load balance: 4ms
//	├─ ledger.ship Widgets ×3: 2ms
//	└─ loader.save: 9ms
type treeWriter struct {
	w      io.Writer
	styles *output.Styles
	slow   time.Duration
}

func (tw *treeWriter) write(root *span) {
	name := root.name
	if tw.styles != nil {
		name = tw.styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(tw.w, "%s: %s\n", name, formatDuration(root.duration()))
	tw.groups(groupSpans(root.children), "")
}

func (tw *treeWriter) groups(groups []*group, prefix string) {
	for i, g := range groups {
		branch, extension := "├─ ", "│  "
		if i == len(groups)-1 {
			branch, extension = "└─ ", "   "
		}

		label := g.name
		if g.count > 1 {
			label = fmt.Sprintf("%s ×%d", g.name, g.count)
		}

		tree, timing := prefix+branch, formatDuration(g.total)
		if tw.styles != nil {
			tree = tw.styles.Dim(tree)
			if g.total >= tw.slow {
				timing = tw.styles.Warning(timing)
			} else {
				timing = tw.styles.Dim(timing)
			}
		}
		_, _ = fmt.Fprintf(tw.w, "%s%s: %s\n", tree, label, timing)

		tw.groups(groupSpans(g.children), prefix+extension)
	}
}

// formatDuration shows milliseconds below a second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
