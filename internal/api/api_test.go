package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/scene"
	"github.com/starford/ansuz/internal/syncservice"
	"github.com/starford/ansuz/internal/testutil"
)

// testEnv sets up a store, journal, service, and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*syncservice.Service, http.Handler) {
	t.Helper()

	store := scene.NewStore(30 * time.Second)
	svc := syncservice.NewService(store, testutil.TestJournal(t), 0)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

func TestSyncAndTree(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(testutil.SamplePayload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body = %s", w.Code, w.Body.String())
	}
	var ack SyncAck
	_ = json.Unmarshal(w.Body.Bytes(), &ack)
	if ack.Status != "ok" || ack.Checksum == "" || ack.NodeCount != 3 {
		t.Errorf("ack = %+v", ack)
	}

	req = httptest.NewRequest(http.MethodGet, "/tree", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("tree status = %d", w.Code)
	}
	var snap scene.Snapshot
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if snap.Name != "MyGame" {
		t.Errorf("tree name = %q", snap.Name)
	}
	if len(snap.Containers) != 2 {
		t.Errorf("containers = %d, want 2", len(snap.Containers))
	}
}

func TestSyncRejectsMalformed(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(`{"no": "name"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// Prior state (the placeholder) must be untouched.
	req = httptest.NewRequest(http.MethodGet, "/tree", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var snap scene.Snapshot
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if snap.Name != scene.WaitingName {
		t.Errorf("tree name = %q, want placeholder", snap.Name)
	}
}

func TestTreeServesPlaceholderBeforePublish(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/tree", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), scene.WaitingName) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var st Status
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Connected || st.LastUpdate != 0 {
		t.Errorf("status before publish = %+v", st)
	}

	req = httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(testutil.SamplePayload))
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.Connected || st.Name != "MyGame" || st.LastUpdate == 0 {
		t.Errorf("status after publish = %+v", st)
	}
}

func TestRenderEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(testutil.SamplePayload))
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/render", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "MyGame") {
		t.Errorf("banner missing: %q", body)
	}
	if !strings.Contains(body, "└── DataService [module] (42 lines)") {
		t.Errorf("tree line missing: %q", body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(testutil.SamplePayload))
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/search?q=data", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Path != "ReplicatedStorage.DataService" {
		t.Errorf("path = %q", resp.Results[0].Path)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(testutil.SamplePayload))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/history?limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp HistoryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(resp.Entries))
	}
	if resp.Entries[0].Name != "MyGame" {
		t.Errorf("entry name = %q", resp.Entries[0].Name)
	}
}

func TestAuthTokenMode(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", w.Code)
	}
}
