package stats

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func addGames(s *GameStats, scores ...int) {
	for i, score := range scores {
		start := t0.Add(time.Duration(s.GamesPlayed()+i) * time.Minute)
		s.AddGame(score, score*10, 0.5, start, start.Add(2*time.Second))
	}
}

func TestGameStats_Aggregates(t *testing.T) {
	s := NewGameStats(0)
	if s.GroupSize != DefaultGroupSize {
		t.Fatalf("group size=%d want=%d", s.GroupSize, DefaultGroupSize)
	}
	for _, score := range []int{1, 5, 3, 7} {
		addGames(s, score)
	}
	if got := s.GamesPlayed(); got != 4 {
		t.Fatalf("played=%d want=4", got)
	}
	if got := s.AverageScore(); got != 4 {
		t.Fatalf("average=%v want=4", got)
	}
	if got := s.MedianScore(); got != 4 {
		t.Fatalf("median=%v want=4", got)
	}
	if got := s.MaxScore(); got != 7 {
		t.Fatalf("max=%d want=7", got)
	}
	recent := s.RecentScores(2)
	if len(recent) != 2 || recent[0] != 3 || recent[1] != 7 {
		t.Fatalf("recent=%v want=[3 7]", recent)
	}
	if got := s.RecentAverage(2); got != 5 {
		t.Fatalf("recent average=%v want=5", got)
	}
}

func TestGameStats_Compression(t *testing.T) {
	s := NewGameStats(3)
	for score := 1; score <= 10; score++ {
		addGames(s, score)
	}
	// 10 games with groups of 3: three level-1 groups merge into one level-2
	// record, one game stays single.
	recs := s.Records()
	if len(recs) != 2 {
		t.Fatalf("records=%d want=2: %+v", len(recs), recs)
	}
	if recs[0].CompressionIndex != 2 || recs[0].GamesCount != 9 {
		t.Fatalf("top record=%+v", recs[0])
	}
	if recs[0].MaxScore != 9 || recs[0].MinScore != 1 {
		t.Fatalf("top record range=%d..%d want=1..9", recs[0].MinScore, recs[0].MaxScore)
	}
	if recs[1].CompressionIndex != 0 || recs[1].MaxScore != 10 {
		t.Fatalf("single record=%+v", recs[1])
	}
	if got := s.GamesPlayed(); got != 10 {
		t.Fatalf("played=%d want=10", got)
	}
	if got := s.AverageScore(); got != 5.5 {
		t.Fatalf("average=%v want=5.5", got)
	}
	if got := s.MaxScore(); got != 10 {
		t.Fatalf("max=%d want=10", got)
	}
}

func TestGameStats_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", "stats.json")
	s := NewGameStats(4)
	addGames(s, 2, 4, 6)
	if err := s.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded := NewGameStats(0)
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.GroupSize != 4 || loaded.GamesPlayed() != 3 || loaded.MaxScore() != 6 {
		t.Fatalf("loaded group=%d played=%d max=%d", loaded.GroupSize, loaded.GamesPlayed(), loaded.MaxScore())
	}
}

func TestGameStats_LoadMissing(t *testing.T) {
	s := NewGameStats(0)
	if err := s.LoadFromFile(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if s.GamesPlayed() != 0 {
		t.Fatal("expected empty stats")
	}
}

func TestEpisodeLog_FlushAndRead(t *testing.T) {
	dir := t.TempDir()
	l := NewEpisodeLog(dir, 10, nil)
	for i := 1; i <= 3; i++ {
		if err := l.Append(i, i+1, i*10, 0.9, -1.5, true, 25*time.Millisecond, t0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	path, err := l.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "episodes_") || filepath.Ext(path) != ".parquet" {
		t.Fatalf("unexpected batch name %q", path)
	}

	rows, err := ReadEpisodes(path)
	if err != nil {
		t.Fatalf("ReadEpisodes: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d want=3", len(rows))
	}
	for i, r := range rows {
		if r.RunID != l.RunID() {
			t.Fatalf("row %d run id=%q want=%q", i, r.RunID, l.RunID())
		}
		if r.Attempt != int32(i+1) || r.Score != int32(i+2) || r.Steps != int32((i+1)*10) {
			t.Fatalf("row %d=%+v", i, r)
		}
		if r.DurationMs != 25 || r.FinishedAtMs != t0.UnixMilli() || !r.Teacher {
			t.Fatalf("row %d=%+v", i, r)
		}
	}

	if p, err := l.Flush(); err != nil || p != "" {
		t.Fatalf("empty flush returned %q, %v", p, err)
	}
}

func TestEpisodeLog_AutoFlush(t *testing.T) {
	dir := t.TempDir()
	l := NewEpisodeLog(dir, 2, nil)
	for i := 0; i < 5; i++ {
		if err := l.Append(i, 1, 1, 0.1, 0, false, 0, t0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "episodes_*.parquet"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	total := 0
	for _, f := range files {
		rows, err := ReadEpisodes(f)
		if err != nil {
			t.Fatalf("ReadEpisodes: %v", err)
		}
		total += len(rows)
	}
	if total != 5 {
		t.Fatalf("rows across %d files=%d want=5", len(files), total)
	}
}
