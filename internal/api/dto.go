package api

import (
	"time"

	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/scene"
	"github.com/starford/ansuz/internal/syncservice"
)

// SyncAck is the response body for a successful publish.
type SyncAck struct {
	Status     string    `json:"status" example:"ok" validate:"required"`
	Checksum   string    `json:"checksum" example:"abc123..." validate:"required"`
	NodeCount  int       `json:"nodeCount" example:"42" validate:"required"`
	ReceivedAt time.Time `json:"receivedAt" validate:"required"`
}

// Status is the connection status response (aliased from the domain layer).
type Status = syncservice.Status

// Match is a single search hit (aliased from the domain layer).
type Match = scene.Match

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []Match `json:"results" validate:"required"`
}

// HistoryResponse wraps recent publish journal entries.
type HistoryResponse struct {
	Entries []journal.Entry `json:"entries" validate:"required"`
}
