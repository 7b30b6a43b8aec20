package mcpserver

// SnapshotFormatContract describes the canonical JSON payload that
// publishers (editor plugins) must POST to /api/sync.
const SnapshotFormatContract = `# Ansuz Snapshot Format Contract

Every publish MUST be a single JSON object with this shape.

## Structure

` + "```" + `json
{
  "name": "MyGame",              // REQUIRED - project display name
  "timestamp": 1724660000,        // OPTIONAL - publisher clock, informational only
  "containers": [                 // REQUIRED - top-level nodes, may be empty
    {
      "name": "Workspace",        // REQUIRED on every node
      "classTag": "service",      // semantic kind, used for display only
      "path": "Workspace",        // OPTIONAL - precomputed dotted path
      "lineCount": 0,             // OPTIONAL - source line count for script leaves
      "childCount": 2,            // OPTIONAL - denormalized immediate-child count
      "children": []              // OPTIONAL - ordered child nodes
    }
  ]
}
` + "```" + `

## Rules

1. **Every publish replaces the whole tree.** There is no partial update;
   send the complete hierarchy each time.
2. **Child order is significant.** It defines render and search traversal
   order and is preserved exactly as received.
3. **Counts must be non-negative.** A node with a negative lineCount or
   childCount is rejected.
4. **Nesting is capped at 100 levels.** Deeper payloads are rejected as
   malformed.
5. **The server's clock wins.** The timestamp field is never used for
   connection freshness; arrival time is.

A rejected publish leaves the previously installed snapshot untouched.
`
