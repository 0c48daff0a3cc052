package training

import (
	"context"
	"errors"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Manager gestisce il training in una goroutine separata e pubblica i
// risultati di ogni episodio su un canale.
type Manager struct {
	trainer *Trainer
	reports chan EpisodeReport
	done    chan struct{}
	logger  log.Logger

	mutex      sync.Mutex
	cancel     context.CancelFunc
	started    bool
	isTraining bool
	err        error
	wg         sync.WaitGroup
}

// NewManager wraps trainer. Reports beyond the buffer are dropped while the
// reader is slow.
func NewManager(trainer *Trainer, buffer int, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if buffer <= 0 {
		buffer = 1
	}
	m := &Manager{
		trainer: trainer,
		reports: make(chan EpisodeReport, buffer),
		done:    make(chan struct{}),
		logger:  logger,
	}
	next := trainer.OnEpisode
	trainer.OnEpisode = func(r EpisodeReport) {
		if next != nil {
			next(r)
		}
		// Invio non bloccante
		select {
		case m.reports <- r:
		default:
			_ = level.Debug(m.logger).Log("msg", "report channel full, dropping", "attempt", r.Attempt)
		}
	}
	return m
}

// Start avvia il training. A Manager runs its trainer once; later calls are no-ops.
func (m *Manager) Start(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.isTraining = true

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go m.trainingLoop(ctx)
}

func (m *Manager) trainingLoop(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.done)

	err := m.trainer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		_ = level.Error(m.logger).Log("msg", "training stopped", "err", err)
	}

	m.mutex.Lock()
	m.err = err
	m.isTraining = false
	m.mutex.Unlock()
}

// Stop ferma il training e attende il salvataggio finale.
func (m *Manager) Stop() {
	m.mutex.Lock()
	cancel := m.cancel
	m.mutex.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Reports returns the channel of per-episode reports.
func (m *Manager) Reports() <-chan EpisodeReport { return m.reports }

// Done is closed once the training goroutine has returned.
func (m *Manager) Done() <-chan struct{} { return m.done }

// IsTraining reports whether the training goroutine is running.
func (m *Manager) IsTraining() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.isTraining
}

// Err returns the error the trainer stopped with, if any.
func (m *Manager) Err() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.err
}
