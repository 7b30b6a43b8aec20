// Package syncservice is the boundary between the publisher and the tree
// model: it validates and installs inbound snapshots, and composes the
// store's read operations for the transport layers.
package syncservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/scene"
)

// Notifier receives a fire-and-forget signal after each successful
// publish. Implementations must not block.
type Notifier interface {
	PublishSnapshotEvent(name, checksum string, nodeCount int)
}

// Status reports the publisher connection state. LastUpdate is unix
// seconds of the last publish arrival, 0 before any publish.
type Status struct {
	Connected  bool   `json:"connected"`
	LastUpdate int64  `json:"lastUpdate"`
	Name       string `json:"name"`
}

// PublishAck acknowledges a successful publish.
type PublishAck struct {
	Checksum   string    `json:"checksum"`
	NodeCount  int       `json:"nodeCount"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Service coordinates the snapshot store, the publish journal, and
// registered observers.
type Service struct {
	store     *scene.Store
	log       journal.Log
	maxDepth  int
	notifiers []Notifier
}

// NewService creates a new sync service. log may be nil when journaling is
// disabled.
func NewService(store *scene.Store, log journal.Log, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = scene.MaxDepth
	}
	return &Service{store: store, log: log, maxDepth: maxDepth}
}

// Notify registers an observer. Observers are signalled at most once per
// successful publish, after the snapshot is installed. Registration is not
// safe concurrently with Publish; wire observers during startup.
func (s *Service) Notify(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Publish decodes, validates, and atomically installs a snapshot. A
// malformed payload is rejected without touching the current snapshot.
// Journal failures are logged but never fail the publish.
func (s *Service) Publish(_ context.Context, raw []byte) (*PublishAck, error) {
	snap, err := scene.Decode(raw, s.maxDepth)
	if err != nil {
		return nil, err
	}

	sum := checksum.Sum(raw)
	s.store.Install(snap)

	ack := &PublishAck{
		Checksum:   sum,
		NodeCount:  snap.NodeCount(),
		ReceivedAt: s.store.LastArrival(),
	}

	if s.log != nil {
		_, err := s.log.Record(journal.Entry{
			Name:           snap.Name,
			Checksum:       sum,
			NodeCount:      ack.NodeCount,
			ContainerCount: len(snap.Containers),
			ReceivedAt:     ack.ReceivedAt,
		})
		if err != nil {
			slog.Warn("journal record failed", slog.String("error", err.Error()))
		}
	}

	for _, n := range s.notifiers {
		n.PublishSnapshotEvent(snap.Name, sum, ack.NodeCount)
	}

	return ack, nil
}

// Current returns the currently installed snapshot (the placeholder before
// the first publish).
func (s *Service) Current() *scene.Snapshot {
	return s.store.Current()
}

// Status composes connection freshness with the current snapshot's name.
func (s *Service) Status() Status {
	var last int64
	if t := s.store.LastArrival(); !t.IsZero() {
		last = t.Unix()
	}
	return Status{
		Connected:  s.store.IsConnected(),
		LastUpdate: last,
		Name:       s.store.Current().Name,
	}
}

// RenderText returns the canonical tree-text rendering of the current
// snapshot.
func (s *Service) RenderText() string {
	return scene.RenderText(s.store.Current())
}

// Search runs a substring search over the current snapshot.
func (s *Service) Search(query string) []scene.Match {
	return scene.Search(s.store.Current(), query)
}

// History returns recent publish journal entries, newest first. Without a
// journal it returns an empty list.
func (s *Service) History(_ context.Context, limit int) ([]journal.Entry, error) {
	if s.log == nil {
		return []journal.Entry{}, nil
	}
	return s.log.Recent(limit)
}
