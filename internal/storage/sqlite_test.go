package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
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
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []Run{
		{Player: "ada", Character: "stem", Score: 100, Semester: 1},
		{Player: "ada", Character: "medical", Score: 2500, Semester: 3},
		{Player: "bob", Character: "humanities", Score: 900, Semester: 1},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].Score != 2500 || runs[0].Character != "medical" || runs[0].Semester != 3 {
		t.Errorf("Unexpected best run: %+v", runs[0])
	}
	if runs[2].Score != 100 {
		t.Errorf("Expected lowest score last, got %d", runs[2].Score)
	}
	if runs[0].ID == "" {
		t.Error("Expected a generated run ID")
	}

	top1, err := store.TopRuns(1)
	if err != nil {
		t.Fatalf("TopRuns(1) failed: %v", err)
	}
	if len(top1) != 1 {
		t.Errorf("Expected limit to apply, got %d runs", len(top1))
	}

	mine, err := store.PlayerRuns("bob", 10)
	if err != nil {
		t.Fatalf("PlayerRuns() failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Score != 900 {
		t.Errorf("Unexpected runs for bob: %+v", mine)
	}
}

func TestSaveRunUpdatesContinuedRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{Player: "ada", Character: "stem", Score: 400, Semester: 1, Knowledge: 60})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	_, err = store.SaveRun(Run{ID: id, Player: "ada", Character: "stem", Score: 1300, Semester: 2, Knowledge: 10, Continues: 1})
	if err != nil {
		t.Fatalf("SaveRun() update failed: %v", err)
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected the run to be updated in place, got %d rows", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Score != 1300 || r.Semester != 2 || r.Continues != 1 || r.Knowledge != 10 {
		t.Errorf("Unexpected run after update: %+v", r)
	}
}

func TestHighScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty history, got %d", high)
	}

	store.SaveRun(Run{Player: "ada", Character: "stem", Score: 100, Semester: 1})
	store.SaveRun(Run{Player: "ada", Character: "stem", Score: 300, Semester: 4})

	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score 300, got %d", high)
	}

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.Runs != 2 || st.HighScore != 300 || st.BestSemester != 4 {
		t.Errorf("Unexpected stats: %+v", st)
	}
	if st.AvgScore != 200 {
		t.Errorf("Expected average 200, got %f", st.AvgScore)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ := store.TopRuns(10)
	if len(runs) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(runs))
	}
}

func TestWallet(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Knowledge("ada"); !errors.Is(err, ErrNoWallet) {
		t.Fatalf("Expected ErrNoWallet, got %v", err)
	}

	if err := store.SaveKnowledge("ada", 55); err != nil {
		t.Fatalf("SaveKnowledge() failed: %v", err)
	}
	if err := store.SaveKnowledge("ada", 5); err != nil {
		t.Fatalf("SaveKnowledge() overwrite failed: %v", err)
	}
	if err := store.SaveKnowledge("bob", -3); err != nil {
		t.Fatalf("SaveKnowledge() failed: %v", err)
	}

	k, err := store.Knowledge("ada")
	if err != nil {
		t.Fatalf("Knowledge() failed: %v", err)
	}
	if k != 5 {
		t.Errorf("Expected 5 knowledge, got %d", k)
	}

	k, _ = store.Knowledge("bob")
	if k != 0 {
		t.Errorf("Negative wallets are stored as 0, got %d", k)
	}
}
