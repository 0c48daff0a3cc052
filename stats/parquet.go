package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// DefaultFlushEvery is the number of buffered rows that triggers a flush.
const DefaultFlushEvery = 100

// EpisodeRow is one finished training episode.
type EpisodeRow struct {
	RunID        string  `parquet:"run_id,dict"`
	Attempt      int32   `parquet:"attempt"`
	Score        int32   `parquet:"score"`
	Steps        int32   `parquet:"steps"`
	Epsilon      float64 `parquet:"epsilon"`
	Reward       float64 `parquet:"reward"`
	Teacher      bool    `parquet:"teacher"`
	DurationMs   int64   `parquet:"duration_ms"`
	FinishedAtMs int64   `parquet:"finished_at_ms"`
}

// EpisodeLog buffers episode rows and writes them to dir as batch files named
// episodes_<unixnano>.parquet. Every row carries the run id of the process.
type EpisodeLog struct {
	dir        string
	runID      string
	flushEvery int
	logger     log.Logger

	mu   sync.Mutex
	rows []EpisodeRow
}

// NewEpisodeLog creates a log for a new run writing into dir.
func NewEpisodeLog(dir string, flushEvery int, logger log.Logger) *EpisodeLog {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	return &EpisodeLog{
		dir:        dir,
		runID:      uuid.NewString(),
		flushEvery: flushEvery,
		logger:     logger,
	}
}

// RunID returns the id stamped on every row of this log.
func (l *EpisodeLog) RunID() string { return l.runID }

// Append buffers one episode and flushes when the buffer is full.
func (l *EpisodeLog) Append(attempt, score, steps int, epsilon, reward float64, teacher bool, duration time.Duration, finishedAt time.Time) error {
	l.mu.Lock()
	l.rows = append(l.rows, EpisodeRow{
		RunID:        l.runID,
		Attempt:      int32(attempt),
		Score:        int32(score),
		Steps:        int32(steps),
		Epsilon:      epsilon,
		Reward:       reward,
		Teacher:      teacher,
		DurationMs:   duration.Milliseconds(),
		FinishedAtMs: finishedAt.UnixMilli(),
	})
	full := len(l.rows) >= l.flushEvery
	l.mu.Unlock()

	if full {
		_, err := l.Flush()
		return err
	}
	return nil
}

// Flush writes the buffered rows to a new batch file and returns its path.
// With nothing buffered it returns "".
func (l *EpisodeLog) Flush() (string, error) {
	l.mu.Lock()
	rows := l.rows
	l.rows = nil
	l.mu.Unlock()

	if len(rows) == 0 {
		return "", nil
	}
	path, err := writeBatchParquetAtomic(l.dir, rows)
	if err != nil {
		// Keep the rows for the next attempt.
		l.mu.Lock()
		l.rows = append(rows, l.rows...)
		l.mu.Unlock()
		_ = level.Error(l.logger).Log("msg", "could not write episode log", "dir", l.dir, "err", err)
		return "", err
	}
	_ = level.Debug(l.logger).Log("msg", "episode log flushed", "path", path, "rows", len(rows))
	return path, nil
}

// Close flushes whatever is still buffered.
func (l *EpisodeLog) Close() error {
	_, err := l.Flush()
	return err
}

func writeBatchParquetAtomic(outDir string, rows []EpisodeRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("episodes_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := finalPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadEpisodes reads back one batch file.
func ReadEpisodes(path string) ([]EpisodeRow, error) {
	rows, err := parquet.ReadFile[EpisodeRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
