package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/faizmokh/pacli/internal/agent"
	"github.com/faizmokh/pacli/internal/config"
	"github.com/faizmokh/pacli/internal/events"
	"github.com/faizmokh/pacli/internal/files"
)

// app holds the services every command works with. It is filled in once the
// persistent flags have been parsed.
type app struct {
	home       string
	configPath string
	logLevel   string

	manager *files.Manager
	cfg     *config.Config
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time

	store     *events.FileStore
	matcher   *events.Matcher
	mutator   *events.Mutator
	editor    *events.Editor
	scheduler *events.Scheduler
	tools     *agent.Registry
}

func (a *app) ready() bool {
	return a.store != nil
}

// load resolves the base directory, reads config and .env, installs the
// logger and wires the event services.
func (a *app) load(stderr io.Writer) error {
	manager, err := files.NewManager(a.home)
	if err != nil {
		return err
	}

	configPath := a.configPath
	if configPath == "" {
		configPath = manager.ConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(manager.EnvPath()); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	logger := config.NewLogger(cfg.LogLevel, stderr)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.wire(manager, cfg, logger, loc)
	logger.Debug("configuration loaded", "base", manager.BasePath(), "events", a.store.Path())
	return nil
}

func (a *app) wire(manager *files.Manager, cfg *config.Config, logger *slog.Logger, loc *time.Location) {
	a.manager = manager
	a.cfg = cfg
	a.logger = logger
	a.loc = loc
	if a.now == nil {
		a.now = func() time.Time { return time.Now().In(loc) }
	}

	a.store = events.NewFileStore(manager.Resolve(cfg.EventsFile))
	a.matcher = events.NewMatcher(a.store, events.WithThreshold(cfg.MatchThreshold))
	a.mutator = events.NewMutator(a.store)
	a.editor = events.NewEditor(a.matcher, a.mutator)
	a.scheduler = events.NewScheduler(a.store)
	a.tools = agent.New(agent.Deps{
		Store:     a.store,
		Matcher:   a.matcher,
		Mutator:   a.mutator,
		Editor:    a.editor,
		Scheduler: a.scheduler,
	}, logger)
}
