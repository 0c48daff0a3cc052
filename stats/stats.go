// Package stats keeps per-episode training statistics: a compacting JSON
// summary and a parquet episode log.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
)

// DefaultGroupSize is the number of records merged into one at each compression level.
const DefaultGroupSize = 100

// GameStats contiene tutte le partite registrate. Once GroupSize records share
// a compression level, the oldest GroupSize of them are merged into a single
// record one level up, so the file stays small over long runs.
type GameStats struct {
	Games     []GameRecord `json:"games"`
	GroupSize int          `json:"groupSize"`
	mutex     sync.RWMutex
}

// GameRecord rappresenta una partita singola (CompressionIndex 0) o un gruppo.
type GameRecord struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageSteps     float64   `json:"averageSteps"`
	AverageDuration  float64   `json:"averageDuration"` // seconds
	LastEpsilon      float64   `json:"lastEpsilon"`
}

// NewGameStats creates empty statistics. A groupSize below 2 uses DefaultGroupSize.
func NewGameStats(groupSize int) *GameStats {
	if groupSize <= 1 {
		groupSize = DefaultGroupSize
	}
	return &GameStats{GroupSize: groupSize}
}

// AddGame registra una partita terminata.
func (s *GameStats) AddGame(score, steps int, epsilon float64, start, end time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Games = append(s.Games, GameRecord{
		StartTime:       start,
		EndTime:         end,
		GamesCount:      1,
		AverageScore:    float64(score),
		MedianScore:     float64(score),
		MaxScore:        score,
		MinScore:        score,
		AverageSteps:    float64(steps),
		AverageDuration: end.Sub(start).Seconds(),
		LastEpsilon:     epsilon,
	})
	s.groupGames()
}

// groupGames raggruppa le partite livello per livello.
func (s *GameStats) groupGames() {
	sort.SliceStable(s.Games, func(i, j int) bool {
		if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
			return s.Games[i].CompressionIndex > s.Games[j].CompressionIndex
		}
		return s.Games[i].StartTime.Before(s.Games[j].StartTime)
	})

	for level := 0; ; level++ {
		var idx []int
		for i, g := range s.Games {
			if g.CompressionIndex == level {
				idx = append(idx, i)
			}
		}
		if len(idx) < s.GroupSize {
			return
		}

		group := make([]GameRecord, 0, s.GroupSize)
		for _, i := range idx[:s.GroupSize] {
			group = append(group, s.Games[i])
		}
		merged := mergeRecords(group, level+1)

		// Rimuovi i record compressi e aggiungi il nuovo gruppo
		drop := make(map[int]bool, s.GroupSize)
		for _, i := range idx[:s.GroupSize] {
			drop[i] = true
		}
		kept := make([]GameRecord, 0, len(s.Games)-s.GroupSize+1)
		for i, g := range s.Games {
			if !drop[i] {
				kept = append(kept, g)
			}
		}
		s.Games = append(kept, merged)
		sort.SliceStable(s.Games, func(i, j int) bool {
			if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
				return s.Games[i].CompressionIndex > s.Games[j].CompressionIndex
			}
			return s.Games[i].StartTime.Before(s.Games[j].StartTime)
		})
	}
}

func mergeRecords(group []GameRecord, level int) GameRecord {
	out := GameRecord{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
	}
	var totalScore, totalSteps, totalDuration float64
	var medians []float64
	for _, g := range group {
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if !g.EndTime.Before(out.EndTime) {
			out.EndTime = g.EndTime
			out.LastEpsilon = g.LastEpsilon
		}
		out.MaxScore = max(out.MaxScore, g.MaxScore)
		out.MinScore = min(out.MinScore, g.MinScore)
		n := float64(g.GamesCount)
		totalScore += g.AverageScore * n
		totalSteps += g.AverageSteps * n
		totalDuration += g.AverageDuration * n
		out.GamesCount += g.GamesCount
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}
	n := float64(out.GamesCount)
	out.AverageScore = totalScore / n
	out.AverageSteps = totalSteps / n
	out.AverageDuration = totalDuration / n
	out.MedianScore = median(medians)
	return out
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Records returns a copy of the stored records, most compressed first.
func (s *GameStats) Records() []GameRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]GameRecord(nil), s.Games...)
}

// GamesPlayed restituisce il numero totale di partite giocate.
func (s *GameStats) GamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	total := 0
	for _, g := range s.Games {
		total += g.GamesCount
	}
	return total
}

// AverageScore is the mean score over every game played.
func (s *GameStats) AverageScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var total float64
	var games int
	for _, g := range s.Games {
		total += g.AverageScore * float64(g.GamesCount)
		games += g.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

// MedianScore approximates the median score, weighting group medians by group size.
func (s *GameStats) MedianScore() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var all []float64
	for _, g := range s.Games {
		for i := 0; i < g.GamesCount; i++ {
			all = append(all, g.MedianScore)
		}
	}
	return median(all)
}

// MaxScore restituisce il punteggio massimo registrato.
func (s *GameStats) MaxScore() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	best := 0
	for _, g := range s.Games {
		best = max(best, g.MaxScore)
	}
	return best
}

// RecentScores returns up to n scores of the latest uncompressed games, oldest first.
func (s *GameStats) RecentScores(n int) []float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var scores []float64
	for _, g := range s.Games {
		if g.CompressionIndex == 0 {
			scores = append(scores, g.AverageScore)
		}
	}
	if len(scores) > n {
		scores = scores[len(scores)-n:]
	}
	return scores
}

// RecentAverage is the mean of RecentScores(n).
func (s *GameStats) RecentAverage(n int) float64 {
	scores := s.RecentScores(n)
	if len(scores) == 0 {
		return 0
	}
	return floats.Sum(scores) / float64(len(scores))
}

// SaveToFile salva le statistiche in formato JSON.
func (s *GameStats) SaveToFile(path string) error {
	s.mutex.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create stats dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename stats: %w", err)
	}
	return nil
}

// LoadFromFile carica le statistiche; a missing file leaves them empty.
func (s *GameStats) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	var loaded struct {
		Games     []GameRecord `json:"games"`
		GroupSize int          `json:"groupSize"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse stats %s: %w", path, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Games = loaded.Games
	if loaded.GroupSize > 1 {
		s.GroupSize = loaded.GroupSize
	}
	return nil
}
