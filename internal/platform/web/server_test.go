package web

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/toxic2048/internal/config"
	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	srv      *Server
	ctrl     *session.Controller
	sessions *MemoryStore
	store    *storage.Store
	cookie   *http.Cookie
}

func newTestServer(t *testing.T, rules engine.Rules) *testServer {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctrl := session.NewController(engine.New(rules, rand.New(rand.NewSource(1))))
	sessions := NewMemoryStore()
	srv := NewServer(Options{
		Config:     config.Default().Web,
		Controller: ctrl,
		Sessions:   sessions,
		Scores:     store,
		Logger:     log.New(io.Discard),
	})
	return &testServer{srv: srv, ctrl: ctrl, sessions: sessions, store: store}
}

// seed stores a session with board and points the client cookie at it.
func (ts *testServer) seed(t *testing.T, board engine.Board) *session.GameSession {
	t.Helper()
	id := uuid.NewString()
	gs := ts.ctrl.NewSession(id)
	gs.Game = engine.State{Board: board, Specials: engine.NewSpecials(board)}
	if err := ts.sessions.SaveSession(gs); err != nil {
		t.Fatal(err)
	}
	ts.cookie = &http.Cookie{Name: config.Default().Web.CookieName, Value: id}
	return gs
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}

	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == config.Default().Web.CookieName {
			ts.cookie = c
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("cannot decode %q: %v", w.Body.String(), err)
	}
	return v
}

func quietRules() engine.Rules {
	return engine.Rules{Size: 4, PoisonStepsLimit: 5}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())
	w := ts.do(t, http.MethodGet, "/healthz", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestIndexAndAssets(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())

	w := ts.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "toxic2048") {
		t.Errorf("GET / = %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/static/app.js", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /static/app.js = %d, want 200", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=604800") {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestGetGameIssuesSessionCookie(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())

	w := ts.do(t, http.MethodGet, "/api/game", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ts.cookie == nil {
		t.Fatal("no session cookie issued")
	}
	if !ts.cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if _, err := uuid.Parse(ts.cookie.Value); err != nil {
		t.Errorf("cookie value %q is not a UUID", ts.cookie.Value)
	}

	view := decode[session.View](t, w)
	if view.ID != ts.cookie.Value {
		t.Errorf("view id = %q, want cookie %q", view.ID, ts.cookie.Value)
	}
	if len(view.Cells) != engine.DefaultSize {
		t.Errorf("board has %d rows, want %d", len(view.Cells), engine.DefaultSize)
	}
	if ts.sessions.Len() != 1 {
		t.Errorf("stored sessions = %d, want 1", ts.sessions.Len())
	}

	// Same cookie, same session
	first := ts.cookie.Value
	w = ts.do(t, http.MethodGet, "/api/game", nil)
	if view := decode[session.View](t, w); view.ID != first {
		t.Errorf("second request got session %q, want %q", view.ID, first)
	}
	if ts.sessions.Len() != 1 {
		t.Errorf("stored sessions = %d, want 1", ts.sessions.Len())
	}
}

func TestMalformedCookieGetsNewSession(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())
	ts.cookie = &http.Cookie{Name: config.Default().Web.CookieName, Value: "not-a-uuid"}

	w := ts.do(t, http.MethodGet, "/api/game", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ts.cookie.Value == "not-a-uuid" {
		t.Error("malformed cookie was not replaced")
	}
}

func TestMoveValidation(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())

	tests := []struct {
		name string
		body any
	}{
		{"missing body", nil},
		{"missing direction", map[string]string{}},
		{"unknown direction", MoveRequest{Direction: "diagonal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/move", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if got := decode[ErrorResponse](t, w); got.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestMoveUndoFlow(t *testing.T) {
	ts := newTestServer(t, quietRules())
	ts.seed(t, engine.Board{
		{32, 32, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	w := ts.do(t, http.MethodPost, "/api/move", MoveRequest{Direction: "left"})
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[MoveResponse](t, w)
	if !resp.Changed || resp.Gain != 64 {
		t.Errorf("move = changed %v gain %d, want true and 64", resp.Changed, resp.Gain)
	}
	if resp.Game.Score != 64 || resp.Game.Moves != 1 || !resp.Game.CanUndo {
		t.Errorf("view = score %d moves %d undo %v", resp.Game.Score, resp.Game.Moves, resp.Game.CanUndo)
	}
	if len(resp.NewAchievements) != 1 || resp.NewAchievements[0].Label != "Fresh Start" {
		t.Errorf("new achievements = %+v, want Fresh Start", resp.NewAchievements)
	}
	if resp.Spawned == nil {
		t.Error("changed move should report the spawned tile")
	}

	w = ts.do(t, http.MethodPost, "/api/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo status = %d", w.Code)
	}
	view := decode[session.View](t, w)
	if view.Score != 0 || view.Moves != 0 || view.Cells[0][0].Value != 32 {
		t.Errorf("after undo: score %d moves %d first tile %d", view.Score, view.Moves, view.Cells[0][0].Value)
	}
	if view.HighScore != 64 {
		t.Errorf("high score = %d, want 64 to survive undo", view.HighScore)
	}

	w = ts.do(t, http.MethodPost, "/api/undo", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second undo status = %d, want 409", w.Code)
	}
}

func TestNoOpMoveKeepsState(t *testing.T) {
	ts := newTestServer(t, quietRules())
	ts.seed(t, engine.Board{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	w := ts.do(t, http.MethodPost, "/api/move", MoveRequest{Direction: "left"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[MoveResponse](t, w)
	if resp.Changed || resp.Game.Moves != 0 || resp.Game.CanUndo {
		t.Errorf("no-op move = %+v", resp)
	}
	if resp.NewAchievements == nil {
		t.Error("new_achievements should be an empty list, not null")
	}
}

// finishingBoard locks after one right move when every spawn is a 4.
func finishingBoard() engine.Board {
	return engine.Board{
		{2, 4},
		{8, 0},
	}
}

func TestFinishedGameIsRecordedOnce(t *testing.T) {
	ts := newTestServer(t, engine.Rules{Size: 2, PoisonStepsLimit: 5, FourChance: 1})
	gs := ts.seed(t, finishingBoard())
	gs.Game.Score = 120

	w := ts.do(t, http.MethodPost, "/api/move", MoveRequest{Direction: "right"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[MoveResponse](t, w)
	if !resp.Finished || !resp.Game.GameOver {
		t.Fatalf("move should finish the game: %+v", resp)
	}

	w = ts.do(t, http.MethodPost, "/api/move", MoveRequest{Direction: "left"})
	if w.Code != http.StatusConflict {
		t.Errorf("move after game over status = %d, want 409", w.Code)
	}
	ts.do(t, http.MethodGet, "/api/game", nil)

	w = ts.do(t, http.MethodGet, "/api/scores", nil)
	scores := decode[ScoresResponse](t, w)
	if len(scores.Scores) != 1 {
		t.Fatalf("recorded %d scores, want 1", len(scores.Scores))
	}
	if got := scores.Scores[0]; got.Score != 120 || got.MaxTile != 8 || got.Moves != 1 {
		t.Errorf("score entry = %+v", got)
	}

	// Reset folds the finished game into the lifetime stats
	w = ts.do(t, http.MethodPost, "/api/reset", nil)
	view := decode[session.View](t, w)
	if view.GameOver || view.Moves != 0 || view.Score != 0 {
		t.Errorf("reset view = %+v", view)
	}
	if view.Stats.GamesPlayed != 1 || view.Stats.TotalScore != 120 || view.HighScore != 120 {
		t.Errorf("stats after reset = %+v high %d", view.Stats, view.HighScore)
	}

	w = ts.do(t, http.MethodGet, "/api/scores", nil)
	if n := len(decode[ScoresResponse](t, w).Scores); n != 1 {
		t.Errorf("reset recorded the game again: %d scores", n)
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())
	gs := ts.seed(t, engine.NewBoard(4))
	gs.Unlocked = session.Unlocked{64, 128, 256}

	w := ts.do(t, http.MethodGet, "/api/achievements", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[AchievementsResponse](t, w)
	if len(resp.Achievements) != len(session.Achievements) {
		t.Fatalf("got %d achievements, want %d", len(resp.Achievements), len(session.Achievements))
	}
	for _, a := range resp.Achievements {
		if want := a.Threshold <= 256; a.Unlocked != want {
			t.Errorf("achievement %d unlocked = %v, want %v", a.Threshold, a.Unlocked, want)
		}
	}
}

func TestScoresLimit(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())
	for i := 1; i <= 5; i++ {
		if _, err := ts.store.SaveScore(storage.ScoreEntry{Player: "p", Score: i * 10}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query  string
		status int
		count  int
	}{
		{"", http.StatusOK, 5},
		{"?limit=2", http.StatusOK, 2},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=500", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		w := ts.do(t, http.MethodGet, "/api/scores"+tt.query, nil)
		if w.Code != tt.status {
			t.Errorf("scores%s status = %d, want %d", tt.query, w.Code, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		resp := decode[ScoresResponse](t, w)
		if len(resp.Scores) != tt.count {
			t.Errorf("scores%s returned %d entries, want %d", tt.query, len(resp.Scores), tt.count)
		}
		if resp.Scores[0].Score != 50 {
			t.Errorf("scores%s top = %d, want 50", tt.query, resp.Scores[0].Score)
		}
	}
}

func TestScoresWithoutStore(t *testing.T) {
	srv := NewServer(Options{
		Config:     config.Default().Web,
		Controller: session.NewController(engine.New(engine.DefaultRules(), rand.New(rand.NewSource(1)))),
		Logger:     log.New(io.Discard),
	})
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"scores":[]`) {
		t.Errorf("body = %s, want an empty list", w.Body.String())
	}
}

func TestSQLiteSessionStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := NewServer(Options{
		Config:     config.Default().Web,
		Controller: session.NewController(engine.New(quietRules(), rand.New(rand.NewSource(2)))),
		Sessions:   store,
		Scores:     store,
		Logger:     log.New(io.Discard),
	})
	ts := &testServer{srv: srv}

	first := decode[session.View](t, ts.do(t, http.MethodGet, "/api/game", nil))
	var moved session.View
	for _, dir := range []string{"left", "right", "up", "down"} {
		resp := decode[MoveResponse](t, ts.do(t, http.MethodPost, "/api/move", MoveRequest{Direction: dir}))
		if resp.Changed {
			moved = resp.Game
			break
		}
	}
	if moved.Moves != 1 {
		t.Fatalf("no move changed the fresh board")
	}

	again := decode[session.View](t, ts.do(t, http.MethodGet, "/api/game", nil))
	if again.ID != first.ID || again.Moves != 1 || !again.CanUndo {
		t.Errorf("session not persisted: %+v", again)
	}

	gs, err := store.LoadSession(first.ID)
	if err != nil || gs == nil {
		t.Fatalf("LoadSession() = %v, %v", gs, err)
	}
	if gs.Moves != 1 || gs.History.Len() != 1 {
		t.Errorf("stored session moves = %d history = %d", gs.Moves, gs.History.Len())
	}
}

func TestConcurrentMovesOnOneSession(t *testing.T) {
	ts := newTestServer(t, engine.DefaultRules())
	ts.do(t, http.MethodGet, "/api/game", nil)
	cookie := ts.cookie

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(MoveRequest{Direction: engine.Directions[i%4].String()})
			req := httptest.NewRequest(http.MethodPost, "/api/move", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(cookie)
			ts.srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	gs, _ := ts.sessions.LoadSession(cookie.Value)
	if gs == nil {
		t.Fatal("session vanished")
	}
	if gs.History.Len() != min(gs.Moves, session.DefaultHistoryLimit) {
		t.Errorf("history %d does not match %d moves", gs.History.Len(), gs.Moves)
	}
	if ts.srv.locks.size() != 0 {
		t.Errorf("%d session locks leaked", ts.srv.locks.size())
	}
}

func TestMemoryStorePrune(t *testing.T) {
	ctrl := session.NewController(engine.New(engine.DefaultRules(), rand.New(rand.NewSource(1))))
	m := NewMemoryStore()

	old := ctrl.NewSession("old")
	old.UpdatedAt = old.UpdatedAt.Add(-48 * time.Hour)
	m.SaveSession(old)
	m.SaveSession(ctrl.NewSession("fresh"))

	n, _ := m.PruneSessions(time.Now().Add(-24 * time.Hour))
	if n != 1 || m.Len() != 1 {
		t.Errorf("pruned %d, left %d; want 1 and 1", n, m.Len())
	}
	if gs, _ := m.LoadSession("old"); gs != nil {
		t.Error("stale session survived")
	}
}
