package scene

import (
	"sync"
	"testing"
	"time"
)

func TestStoreServesPlaceholderBeforePublish(t *testing.T) {
	s := NewStore(30 * time.Second)

	snap := s.Current()
	if snap.Name != WaitingName {
		t.Errorf("name = %q, want placeholder", snap.Name)
	}
	if !s.LastArrival().IsZero() {
		t.Error("last arrival should be zero before any publish")
	}
	if s.IsConnected() {
		t.Error("should not be connected before any publish")
	}
}

func TestStoreInstallReplacesWholesale(t *testing.T) {
	s := NewStore(30 * time.Second)

	first := &Snapshot{Name: "First", Containers: []Node{{Name: "A"}}}
	s.Install(first)
	if s.Current() != first {
		t.Error("current should be the installed snapshot")
	}
	before := s.LastArrival()
	if before.IsZero() {
		t.Fatal("last arrival should be set after install")
	}

	second := &Snapshot{Name: "Second", Containers: []Node{}}
	s.Install(second)
	if s.Current() != second {
		t.Error("current should be the second snapshot")
	}
	if s.LastArrival().Before(before) {
		t.Error("last arrival went backwards")
	}
}

func TestStoreFreshnessWindow(t *testing.T) {
	s := NewStore(30 * time.Second)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Install(&Snapshot{Name: "X", Containers: []Node{}})

	if !s.IsConnected() {
		t.Error("should be connected immediately after publish")
	}

	s.now = func() time.Time { return base.Add(29 * time.Second) }
	if !s.IsConnected() {
		t.Error("should still be connected inside the window")
	}

	s.now = func() time.Time { return base.Add(30 * time.Second) }
	if s.IsConnected() {
		t.Error("should be disconnected once the window elapses")
	}
}

func TestStoreConcurrentReadersNeverSeeTornState(t *testing.T) {
	s := NewStore(30 * time.Second)

	snaps := []*Snapshot{
		{Name: "A", Containers: []Node{{Name: "a"}}},
		{Name: "B", Containers: []Node{{Name: "b"}}},
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.Install(snaps[i%2])
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				snap := s.Current()
				if snap.Name != "A" && snap.Name != "B" && snap.Name != WaitingName {
					t.Errorf("observed torn snapshot %q", snap.Name)
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(stop)
	wg.Wait()
}
