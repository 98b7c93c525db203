package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func TestSQLiteBestScore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "snake.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if got := db.LoadBest(ctx, BestKey); got != 0 {
		t.Fatalf("empty store best = %d, want 0", got)
	}
	if err := db.SaveBest(ctx, BestKey, 40); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if err := db.SaveBest(ctx, BestKey, 20); err != nil {
		t.Fatalf("SaveBest lower: %v", err)
	}
	if got := db.LoadBest(ctx, BestKey); got != 40 {
		t.Fatalf("best = %d, want 40", got)
	}
	if err := db.SaveBest(ctx, BestKey, 70); err != nil {
		t.Fatalf("SaveBest higher: %v", err)
	}

	// 重新打开后值仍在
	db.Close()
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := db.LoadBest(ctx, BestKey); got != 70 {
		t.Fatalf("best after reopen = %d, want 70", got)
	}
}

func TestSQLiteUnparseableDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "snake.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.conn.Exec(`INSERT INTO best_scores (name, value) VALUES (?, ?)`, BestKey, "lots"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := db.LoadBest(ctx, BestKey); got != 0 {
		t.Fatalf("best = %d, want 0", got)
	}
	if err := db.SaveBest(ctx, BestKey, 10); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if got := db.LoadBest(ctx, BestKey); got != 10 {
		t.Fatalf("best = %d, want 10", got)
	}
}

func TestSQLiteConcurrentWritersNeverLower(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snake.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	// 第二个句柄模拟共用同一文件的另一个进程
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer b.Close()

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("race.%d", i)
		if err := a.SaveBest(ctx, key, 30); err != nil {
			t.Fatalf("seed: %v", err)
		}
		var wg sync.WaitGroup
		errs := make(chan error, 4)
		for _, w := range []struct {
			db *SQLite
			v  int
		}{{a, 50}, {b, 40}, {a, 40}, {b, 50}} {
			wg.Add(1)
			go func(db *SQLite, v int) {
				defer wg.Done()
				errs <- db.SaveBest(ctx, key, v)
			}(w.db, w.v)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("SaveBest: %v", err)
			}
		}
		if got := b.LoadBest(ctx, key); got != 50 {
			t.Fatalf("%s best = %d, want 50", key, got)
		}
	}
}

func TestSQLiteLowerWriteFromOtherHandleIgnored(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snake.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer b.Close()

	if err := a.SaveBest(ctx, BestKey, 50); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if err := b.SaveBest(ctx, BestKey, 40); err != nil {
		t.Fatalf("SaveBest: %v", err)
	}
	if got := a.LoadBest(ctx, BestKey); got != 50 {
		t.Fatalf("best = %d, want 50", got)
	}
}

func TestMemoryNeverLowers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.SaveBest(ctx, BestKey, 30)
	_ = m.SaveBest(ctx, BestKey, 10)
	if got := m.LoadBest(ctx, BestKey); got != 30 {
		t.Fatalf("best = %d, want 30", got)
	}
	if got := m.LoadBest(ctx, "other"); got != 0 {
		t.Fatalf("other = %d, want 0", got)
	}
}

var (
	_ BestScores = (*SQLite)(nil)
	_ BestScores = (*Memory)(nil)
)
