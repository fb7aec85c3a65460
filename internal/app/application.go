package app

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneweave/sceneweave/internal/agent"
	"github.com/sceneweave/sceneweave/internal/config"
	"github.com/sceneweave/sceneweave/internal/core"
	"github.com/sceneweave/sceneweave/internal/dispatcher"
	"github.com/sceneweave/sceneweave/internal/eventbus"
	"github.com/sceneweave/sceneweave/internal/logging"
	"github.com/sceneweave/sceneweave/internal/models"
)

const dialTimeout = 5 * time.Second

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.SessionService
	model      *AppModel
	logFile    *os.File
}

func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// The TUI owns stdout; logs go to a file only when requested
	var logFile *os.File
	log := logging.New(nil, "info")
	if path := os.Getenv("SCENEWEAVE_LOG"); path != "" {
		if f, ferr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); ferr == nil {
			logFile = f
			log = logging.New(f, "debug")
		}
	}

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// Connect to the agent runtime; the session still starts without it
	var feed agent.Feed
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if client, dialErr := agent.Dial(ctx, cfg.GetAgentURL(), log); dialErr == nil {
		feed = client
	} else {
		log.Warn().Err(dialErr).Str("url", cfg.GetAgentURL()).Msg("agent runtime unreachable")
	}

	// Initialize session service (always create, handles missing feed internally)
	service := core.NewSessionService(cfg, feed, eb, log)

	// Create app model
	model := newAppModel(createInitialAppModel(service), disp)

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      model,
		logFile:    logFile,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
	if app.logFile != nil {
		app.logFile.Close()
	}
}

func createInitialAppModel(service *core.SessionService) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:     make([]models.Message, 0),
		Status:       "Ready",
		Loading:      false,
		SessionReady: service.IsReady(),
	}
}
