package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/themuffinator/BrumSchtick/output"
)

// slowThreshold marks operations worth calling out in the report.
const slowThreshold = 100 * time.Millisecond

// formatTimingTree writes the timing tree in a hierarchical layout:
//
//	Check map: 125ms
//	├─ Parse: 85ms
//	│  ├─ Tokenize: 45ms
//	│  └─ Build entities: 5ms
//	└─ Build brushes: 40ms
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.duration()))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	duration := node.duration()
	timing := formatDuration(duration)
	lead := prefix + branch
	if styles != nil {
		lead = styles.Dim(lead)
		if duration >= slowThreshold {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
	}
	fmt.Fprintf(w, "%s%s: %s\n", lead, node.name, timing)

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
