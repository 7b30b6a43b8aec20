// Package scene holds the in-memory model of the last published
// scene-hierarchy snapshot, plus rendering and search over it.
package scene

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
)

// WaitingName is the project name of the placeholder snapshot that is
// served before any publish has occurred.
const WaitingName = "Waiting for connection"

// MaxDepth is the default nesting limit for inbound snapshots. Payloads
// nesting deeper are rejected as malformed rather than traversed.
const MaxDepth = 100

// Node is one object in the published hierarchy. Children order is
// significant and preserved exactly as received; it defines render and
// traversal order.
type Node struct {
	Name       string `json:"name"`
	ClassTag   string `json:"classTag"`
	Path       string `json:"path,omitempty"`
	LineCount  int    `json:"lineCount,omitempty"`
	ChildCount int    `json:"childCount,omitempty"`
	Children   []Node `json:"children,omitempty"`
}

// Validate checks the node's own fields (not its children).
func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Name, validation.Required),
		validation.Field(&n.LineCount, validation.Min(0)),
		validation.Field(&n.ChildCount, validation.Min(0)),
	)
}

// Snapshot is one full, atomic publish of the project hierarchy.
// Timestamp is the publisher's claimed creation time and is informational
// only; freshness is tracked from local arrival time.
type Snapshot struct {
	Name       string  `json:"name"`
	Timestamp  float64 `json:"timestamp,omitempty"`
	Containers []Node  `json:"containers"`
}

// Validate checks the snapshot's top-level shape.
func (s Snapshot) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Containers, validation.NotNil),
	)
}

// NodeCount returns the total number of nodes across all containers.
func (s *Snapshot) NodeCount() int {
	count := 0
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for i := range nodes {
			count++
			walk(nodes[i].Children)
		}
	}
	walk(s.Containers)
	return count
}

// Placeholder returns the snapshot served before the first publish.
func Placeholder() *Snapshot {
	return &Snapshot{Name: WaitingName, Containers: []Node{}}
}

// Decode parses and validates a raw snapshot payload. Validation happens
// once here, at the boundary: required fields, non-negative counts, and a
// nesting limit of maxDepth levels. All failures wrap
// apperr.ErrMalformedPayload so callers can classify them.
func Decode(raw []byte, maxDepth int) (*Snapshot, error) {
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", apperr.ErrMalformedPayload, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedPayload, err)
	}

	var walk func(nodes []Node, depth int) error
	walk = func(nodes []Node, depth int) error {
		if len(nodes) == 0 {
			return nil
		}
		if depth > maxDepth {
			return fmt.Errorf("%w: nesting exceeds %d levels", apperr.ErrMalformedPayload, maxDepth)
		}
		for i := range nodes {
			if err := nodes[i].Validate(); err != nil {
				return fmt.Errorf("%w: node %q: %v", apperr.ErrMalformedPayload, nodes[i].Name, err)
			}
			if err := walk(nodes[i].Children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(snap.Containers, 1); err != nil {
		return nil, err
	}

	return &snap, nil
}
