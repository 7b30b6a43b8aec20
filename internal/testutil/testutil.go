// Package testutil provides shared test helpers for journals and sample
// snapshot payloads.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/ansuz/internal/journal"
)

// TestJournal creates a temporary journal database that is automatically
// cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := journal.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SamplePayload is a small valid snapshot publish body used across tests.
const SamplePayload = `{
	"name": "MyGame",
	"timestamp": 1724660000,
	"containers": [
		{"name": "ReplicatedStorage", "classTag": "service", "children": [
			{"name": "DataService", "classTag": "module", "lineCount": 42}
		]},
		{"name": "Workspace", "classTag": "service", "childCount": 0}
	]
}`
