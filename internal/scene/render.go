package scene

import (
	"fmt"
	"strings"
)

const bannerRule = "=================================================="

// NoDataLine is emitted in place of a tree when no containers have been
// published yet.
const NoDataLine = "No hierarchy data received yet. Start the editor plugin to publish a snapshot."

// RenderText produces the canonical text rendering of a snapshot: a banner
// with the project name, then one depth-first box-drawing tree per
// top-level container, separated by blank lines. The output is
// deterministic; both the UI and the assistant rely on byte-identical
// rendering for equal input.
func RenderText(snap *Snapshot) string {
	var b strings.Builder

	b.WriteString(bannerRule + "\n")
	b.WriteString("  " + snap.Name + "\n")
	b.WriteString(bannerRule + "\n\n")

	if len(snap.Containers) == 0 {
		b.WriteString(NoDataLine + "\n")
		return b.String()
	}

	for i := range snap.Containers {
		if i > 0 {
			b.WriteString("\n")
		}
		root := &snap.Containers[i]
		b.WriteString(nodeLabel(root) + "\n")
		renderChildren(&b, root.Children, "")
	}

	return b.String()
}

// nodeLabel formats a single node line without prefix or connector.
func nodeLabel(n *Node) string {
	label := fmt.Sprintf("%s [%s]", n.Name, n.ClassTag)
	if n.LineCount > 0 {
		label += fmt.Sprintf(" (%d lines)", n.LineCount)
	}
	if n.ChildCount > 0 {
		label += fmt.Sprintf(" (%d children)", n.ChildCount)
	}
	return label
}

// renderChildren emits nodes depth-first with box-drawing connectors.
// The last sibling gets a corner connector and its subtree loses the
// vertical rule from the prefix.
func renderChildren(b *strings.Builder, nodes []Node, prefix string) {
	for i := range nodes {
		n := &nodes[i]
		last := i == len(nodes)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		b.WriteString(prefix + connector + nodeLabel(n) + "\n")
		renderChildren(b, n.Children, childPrefix)
	}
}
