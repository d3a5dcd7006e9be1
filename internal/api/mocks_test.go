package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ryanbastic/go-escaperoom/internal/export"
	"github.com/ryanbastic/go-escaperoom/internal/hints"
	"github.com/ryanbastic/go-escaperoom/internal/room"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

// --- Mock RoomStore ---

type mockRoomStore struct {
	mu     sync.Mutex
	rooms  map[int64]room.RoomConfig
	nextID int64
	err    error
}

func newMockRoomStore() *mockRoomStore {
	return &mockRoomStore{rooms: make(map[int64]room.RoomConfig)}
}

func (m *mockRoomStore) CreateRoom(_ context.Context, req storage.CreateRoomRequest) (*room.RoomConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	now := time.Now().UTC()
	images := req.AppliedImages
	if images == nil {
		images = []room.AppliedImage{}
	}
	rc := room.RoomConfig{
		ID:               m.nextID,
		Name:             req.Name,
		TimeLimitSeconds: req.TimeLimitSeconds,
		AppliedImages:    images,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.rooms[rc.ID] = rc
	return &rc, nil
}

func (m *mockRoomStore) GetRoom(_ context.Context, id int64) (*room.RoomConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rc, ok := m.rooms[id]
	if !ok {
		return nil, storage.ErrRoomNotFound
	}
	return &rc, nil
}

func (m *mockRoomStore) ListRooms(_ context.Context, cursor string, limit int) (*storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	ids := make([]int64, 0, len(m.rooms))
	for id := range m.rooms {
		if id > c.AfterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	page := &storage.Page{}
	for _, id := range ids {
		if len(page.Rooms) == limit {
			page.HasMore = true
			next := storage.Cursor{AfterID: page.Rooms[limit-1].ID}
			page.NextCursor, _ = next.Encode()
			break
		}
		page.Rooms = append(page.Rooms, m.rooms[id])
	}
	return page, nil
}

func (m *mockRoomStore) UpdateRoom(_ context.Context, id int64, upd storage.RoomUpdate) (*room.RoomConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rc, ok := m.rooms[id]
	if !ok {
		return nil, storage.ErrRoomNotFound
	}
	if upd.Name != nil {
		rc.Name = *upd.Name
	}
	if upd.TimeLimitSeconds != nil {
		rc.TimeLimitSeconds = *upd.TimeLimitSeconds
	}
	if upd.AppliedImages != nil {
		rc.AppliedImages = *upd.AppliedImages
	}
	rc.UpdatedAt = rc.UpdatedAt.Add(time.Second)
	m.rooms[id] = rc
	return &rc, nil
}

func (m *mockRoomStore) DeleteRoom(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rooms[id]; !ok {
		return storage.ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

// --- Mock Suggester ---

type mockSuggester struct {
	hint string
	err  error
	last hints.Request
}

func (m *mockSuggester) Suggest(_ context.Context, req hints.Request) (string, error) {
	m.last = req
	return m.hint, m.err
}

// --- Server setup ---

type serverOption func(*serverDeps)

type serverDeps struct {
	suggester hints.Suggester
	backends  map[string]Pinger
}

func withSuggester(s hints.Suggester) serverOption {
	return func(d *serverDeps) { d.suggester = s }
}

func withBackends(b map[string]Pinger) serverOption {
	return func(d *serverDeps) { d.backends = b }
}

func setupTestServer(t *testing.T, store storage.RoomStore, opts ...serverOption) http.Handler {
	t.Helper()
	gen, err := export.NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	var deps serverDeps
	for _, opt := range opts {
		opt(&deps)
	}
	return NewServer(testLogger(), store, gen, deps.suggester, deps.backends)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// problemDetail decodes the detail field of a huma error response.
func problemDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var p struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v\nbody: %s", err, w.Body.String())
	}
	return p.Detail
}

func sampleImageBodies() []map[string]any {
	return []map[string]any{
		{"id": 1700000000001, "url": "blob:http://localhost/abc", "fileName": "clock.png", "x": 120, "y": 80,
			"hintText": "Tick tock", "clueText": "The safe code is 4711", "answer": " Clock ", "isFlipped": false},
		{"id": 1700000000002, "fileName": "mirror.png", "x": 300.5, "y": -10,
			"hintText": "Reflect", "clueText": "Look behind you", "answer": "mirror", "isFlipped": true},
	}
}
