package storage

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/toxic2048/internal/engine"
	"github.com/vovakirdan/toxic2048/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore(ScoreEntry{Player: "local", Score: 64}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore(); high != 64 {
		t.Errorf("HighScore() after reopen = %d, want 64", high)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/.toxic2048/db")
	if err != nil {
		t.Fatalf("ExpandPath() error: %v", err)
	}
	if want := filepath.Join(home, ".toxic2048", "db"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("ExpandPath(abs) = %q", got)
	}
}

func TestStoreSaveAndRetrieveScores(t *testing.T) {
	store := openTestStore(t)

	entries := []ScoreEntry{
		{Player: "local", Score: 100, MaxTile: 16, Moves: 40, Duration: 90 * time.Second},
		{Player: "ssh:alice", Score: 50, MaxTile: 8, Moves: 20},
		{Player: "local", Score: 200, MaxTile: 32, Moves: 80},
	}
	for _, e := range entries {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[1].MaxTile != 16 || scores[1].Moves != 40 || scores[1].Duration != 90*time.Second {
		t.Errorf("second entry = %+v, want tile 16, 40 moves, 1m30s", scores[1])
	}

	mine, err := store.PlayerScores("local", 10)
	if err != nil {
		t.Fatalf("PlayerScores() failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("Expected 2 local scores, got %d", len(mine))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore(ScoreEntry{Player: "test", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores(3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty table, got %d", high)
	}

	store.SaveScore(ScoreEntry{Player: "a", Score: 100})
	store.SaveScore(ScoreEntry{Player: "b", Score: 300})
	store.SaveScore(ScoreEntry{Player: "a", Score: 200})

	if high, _ = store.HighScore(); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores(10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GameStats()
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore(ScoreEntry{Player: "a", Score: 100, MaxTile: 64, Moves: 10})
	store.SaveScore(ScoreEntry{Player: "b", Score: 300, MaxTile: 256, Moves: 30})

	stats, err = store.GameStats()
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v, want 2 games, high 300, total 400", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.BestTile != 256 || stats.TotalMoves != 40 {
		t.Errorf("BestTile = %d TotalMoves = %d, want 256 and 40", stats.BestTile, stats.TotalMoves)
	}
}

func playedSession(t *testing.T, id string) *session.GameSession {
	t.Helper()
	rules := engine.DefaultRules()
	rules.PoisonChance = 0.3
	rules.CountdownChance = 0.3
	c := session.NewController(engine.New(rules, rand.New(rand.NewSource(4))))

	gs := c.NewSession(id)
	for i := 0; i < 25 && !gs.GameOver; i++ {
		c.Move(gs, engine.Directions[i%len(engine.Directions)])
	}
	gs.HighScore = 4096
	gs.Unlocked = session.Unlocked{64, 128}
	gs.Stats.Record(1000, 100, time.Minute)
	return gs
}

func TestStoreSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	gs := playedSession(t, "abc")

	if err := store.SaveSession(gs); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	loaded, err := store.LoadSession("abc")
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadSession() returned nil for a saved session")
	}

	if !loaded.Game.Equal(gs.Game) {
		t.Error("loaded game state differs from the saved one")
	}
	if loaded.History.Len() != gs.History.Len() {
		t.Fatalf("history length = %d, want %d", loaded.History.Len(), gs.History.Len())
	}
	for i := range gs.History {
		if !loaded.History[i].Equal(gs.History[i]) {
			t.Fatalf("history entry %d differs", i)
		}
	}
	if loaded.Moves != gs.Moves || loaded.HighScore != 4096 || loaded.Stats != gs.Stats {
		t.Errorf("aggregates differ: got moves=%d high=%d stats=%+v", loaded.Moves, loaded.HighScore, loaded.Stats)
	}
	if !loaded.Unlocked.Has(128) || loaded.Unlocked.Has(256) {
		t.Errorf("unlocked = %v, want [64 128]", loaded.Unlocked)
	}
	if !loaded.StartedAt.Equal(gs.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", loaded.StartedAt, gs.StartedAt)
	}
}

func TestStoreSaveSessionOverwrites(t *testing.T) {
	store := openTestStore(t)
	gs := playedSession(t, "same")

	store.SaveSession(gs)
	gs.Moves = 999
	if err := store.SaveSession(gs); err != nil {
		t.Fatalf("second SaveSession() failed: %v", err)
	}

	loaded, _ := store.LoadSession("same")
	if loaded == nil || loaded.Moves != 999 {
		t.Errorf("SaveSession() did not overwrite: %+v", loaded)
	}
}

func TestStoreLoadMissingSession(t *testing.T) {
	store := openTestStore(t)

	gs, err := store.LoadSession("nope")
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if gs != nil {
		t.Errorf("LoadSession() = %+v, want nil", gs)
	}
}

func TestStoreDeleteAndPruneSessions(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	old := playedSession(t, "old")
	old.UpdatedAt = now.Add(-48 * time.Hour)
	fresh := playedSession(t, "fresh")
	fresh.UpdatedAt = now
	gone := playedSession(t, "gone")

	for _, gs := range []*session.GameSession{old, fresh, gone} {
		if err := store.SaveSession(gs); err != nil {
			t.Fatalf("SaveSession(%s) failed: %v", gs.ID, err)
		}
	}

	if err := store.DeleteSession("gone"); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	if gs, _ := store.LoadSession("gone"); gs != nil {
		t.Error("deleted session is still stored")
	}
	if err := store.DeleteSession("gone"); err != nil {
		t.Errorf("deleting a missing session should not fail: %v", err)
	}

	n, err := store.PruneSessions(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneSessions() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("PruneSessions() removed %d sessions, want 1", n)
	}
	if gs, _ := store.LoadSession("old"); gs != nil {
		t.Error("stale session survived pruning")
	}
	if gs, _ := store.LoadSession("fresh"); gs == nil {
		t.Error("fresh session was pruned")
	}
}

func TestStoreRecordFinishedOnce(t *testing.T) {
	store := openTestStore(t)
	gs := playedSession(t, "ssh:bob")

	gs.GameOver = false
	if err := store.RecordFinished(gs, time.Minute); err != nil {
		t.Fatalf("RecordFinished() failed: %v", err)
	}
	if scores, _ := store.TopScores(10); len(scores) != 0 {
		t.Fatalf("running game was recorded: %v", scores)
	}

	gs.GameOver = true
	for i := 0; i < 2; i++ {
		if err := store.RecordFinished(gs, time.Minute); err != nil {
			t.Fatalf("RecordFinished() failed: %v", err)
		}
	}
	if !gs.ScoreSaved {
		t.Error("RecordFinished() should mark the session saved")
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("finished game recorded %d times, want 1", len(scores))
	}
	got := scores[0]
	if got.Player != "ssh:bob" || got.Score != gs.Game.Score || got.Moves != gs.Moves {
		t.Errorf("entry = %+v, want player ssh:bob score %d moves %d", got, gs.Game.Score, gs.Moves)
	}
	if got.MaxTile != engine.MaxTile(gs.Game.Board) || got.Duration != time.Minute {
		t.Errorf("entry = %+v, want max tile %d and 1m", got, engine.MaxTile(gs.Game.Board))
	}
}
