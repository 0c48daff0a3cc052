package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"snake-ai/config"
	"snake-ai/game"
	"snake-ai/logging"
	"snake-ai/qlearning"
	"snake-ai/stats"
	"snake-ai/training"
	"snake-ai/ui"
	"snake-ai/ui/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
)

type options struct {
	headless    bool
	attempts    int
	loadPath    string
	savePath    string
	useTUI      bool
	teacher     bool
	configPath  string
	seed        uint64
	episodesDir string
}

func main() {
	var opts options
	flag.BoolVar(&opts.headless, "headless", false, "Train without a window")
	flag.IntVar(&opts.attempts, "attempts", 1000, "Number of headless episodes")
	flag.StringVar(&opts.loadPath, "load", "model.txt", "Model file reloaded before every headless episode")
	flag.StringVar(&opts.savePath, "save", "model.txt", "Model file written while training")
	flag.BoolVar(&opts.useTUI, "tui", false, "Show headless progress in the terminal")
	flag.BoolVar(&opts.teacher, "teacher", true, "Let the BFS oracle pick moves while training headless")
	flag.StringVar(&opts.configPath, "config", "", "JSON file overriding the default configuration")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 = clock)")
	flag.StringVar(&opts.episodesDir, "episodes-dir", filepath.Join("data", "episodes"), "Where the episode log and stats are written")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "snake-ai:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	// -teacher only overrides the config when given explicitly
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "teacher" {
			cfg.TeacherMode = opts.teacher
		}
	})

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	if !opts.headless {
		logger := logging.Stderr(cfg.LogLevel)
		_ = level.Info(logger).Log("msg", "starting interactive mode", "model", opts.savePath, "seed", seed)
		return ui.Run(cfg, opts.savePath, rng, logging.Component(logger, "ui"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(opts.episodesDir, 0o755); err != nil {
		return fmt.Errorf("create episodes dir: %w", err)
	}

	var logger log.Logger
	if opts.useTUI {
		// i log finiscono su file per non sporcare il terminale
		f, err := os.OpenFile(filepath.Join(opts.episodesDir, "train.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		if logger, err = logging.New(f, cfg.LogLevel); err != nil {
			return err
		}
	} else {
		logger = logging.Stderr(cfg.LogLevel)
	}
	_ = level.Info(logger).Log("msg", "starting headless mode", "seed", seed, "attempts", opts.attempts)

	trainer, err := newTrainer(cfg, opts, rng, logger)
	if err != nil {
		return err
	}

	gameStats := stats.NewGameStats(stats.DefaultGroupSize)
	episodes := stats.NewEpisodeLog(opts.episodesDir, stats.DefaultFlushEvery, logging.Component(logger, "episodes"))
	statsPath := filepath.Join(opts.episodesDir, "stats_"+episodes.RunID()+".json")
	trainer.OnEpisode = func(r training.EpisodeReport) {
		gameStats.AddGame(r.Score, r.Steps, r.Epsilon, r.FinishedAt.Add(-r.Duration), r.FinishedAt)
		if err := episodes.Append(r.Attempt, r.Score, r.Steps, r.Epsilon, r.Reward, r.Teacher, r.Duration, r.FinishedAt); err != nil {
			_ = level.Error(logger).Log("msg", "could not write episode log", "err", err)
		}
	}

	if opts.useTUI {
		err = runTUI(ctx, trainer, opts.attempts, logger)
	} else {
		err = trainer.Run(ctx)
	}

	if cerr := episodes.Close(); cerr != nil {
		_ = level.Error(logger).Log("msg", "could not flush episode log", "err", cerr)
	}
	if serr := gameStats.SaveToFile(statsPath); serr != nil {
		_ = level.Error(logger).Log("msg", "could not save stats", "path", statsPath, "err", serr)
	}
	_ = level.Info(logger).Log("msg", "done", "games", gameStats.GamesPlayed(), "avg_score", gameStats.AverageScore(), "max_score", gameStats.MaxScore())

	if ctx.Err() != nil {
		return nil
	}
	return err
}

func newTrainer(cfg config.Config, opts options, rng *rand.Rand, logger log.Logger) (*training.Trainer, error) {
	agent, err := qlearning.NewAgent(cfg.AgentParams(), rng, logging.Component(logger, "agent"))
	if err != nil {
		return nil, err
	}
	g := game.New(cfg.GridRows, cfg.GridCols, rng)
	d := training.NewDriver(cfg, g, agent, rng, logging.Component(logger, "driver"))
	return training.NewTrainer(d, opts.attempts, opts.loadPath, opts.savePath, cfg.SaveEvery, logging.Component(logger, "trainer")), nil
}

func runTUI(ctx context.Context, trainer *training.Trainer, attempts int, logger log.Logger) error {
	manager := training.NewManager(trainer, 64, logging.Component(logger, "manager"))
	manager.Start(ctx)

	p := tea.NewProgram(tui.New(attempts, manager.Reports(), manager.Done()), tea.WithContext(ctx))
	_, err := p.Run()
	// q esce prima della fine: ferma il training e aspetta il salvataggio
	manager.Stop()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return manager.Err()
}
