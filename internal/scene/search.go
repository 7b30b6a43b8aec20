package scene

import "strings"

// Match is one search hit. Path is the dotted path from the container
// root down to the matching node.
type Match struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	ClassTag  string `json:"classTag"`
	LineCount int    `json:"lineCount,omitempty"`
}

// Search returns every node whose name or dotted full path contains the
// query, case-insensitively. Traversal is depth-first pre-order across all
// containers, and results keep traversal order: no ranking, no dedupe, no
// limit. A matching parent's subtree is still searched.
func Search(snap *Snapshot, query string) []Match {
	q := strings.ToLower(query)
	results := []Match{}

	var walk func(nodes []Node, parentPath string)
	walk = func(nodes []Node, parentPath string) {
		for i := range nodes {
			n := &nodes[i]
			fullPath := n.Name
			if parentPath != "" {
				fullPath = parentPath + "." + n.Name
			}
			if strings.Contains(strings.ToLower(n.Name), q) ||
				strings.Contains(strings.ToLower(fullPath), q) {
				results = append(results, Match{
					Name:      n.Name,
					Path:      fullPath,
					ClassTag:  n.ClassTag,
					LineCount: n.LineCount,
				})
			}
			walk(n.Children, fullPath)
		}
	}
	walk(snap.Containers, "")

	return results
}
