package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/config"
	"github.com/vedantwpatil/Auto-Clicker/internal/engine"
	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/playback"
	"github.com/vedantwpatil/Auto-Clicker/internal/recording"
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	headColor = color.New(color.FgCyan, color.Bold)
)

type Application struct {
	config *config.Config
	logger *zap.Logger
	engine *engine.Engine
	lines  chan string
	ctx    context.Context
	cancel context.CancelFunc
}

func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	eng, err := engine.New(engine.Options{Config: cfg, Logger: logger})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		config: cfg,
		logger: logger,
		engine: eng,
		lines:  make(chan string),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (app *Application) Run() error {
	defer app.cancel()
	defer func() { _ = app.logger.Sync() }()
	defer app.engine.Shutdown()

	if err := app.engine.Start(app.ctx); err != nil {
		return err
	}
	app.logger.Info("configuration loaded", zap.String("source", app.config.Source))

	stopMessage := fmt.Sprintf("Emergency stop triggered by %s key.", keyLabel(app.config.EmergencyStop.Key))
	app.engine.OnEmergencyStop(func() {
		warnColor.Println("\n" + stopMessage)
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go app.handleSignals(sigChan)

	app.watchConfig()
	go app.readLines()

	for {
		app.printMenu()
		select {
		case <-app.ctx.Done():
			okColor.Println("Exiting program.")
			return nil
		case line, ok := <-app.lines:
			if !ok {
				return nil
			}
			if done := app.handleChoice(strings.TrimSpace(line)); done {
				okColor.Println("Exiting program.")
				return nil
			}
		}
	}
}

func (app *Application) printMenu() {
	headColor.Println("\nCommands:")
	fmt.Println("1. Start/stop recording clicks")
	fmt.Printf("2. Set interval (currently %.3gs)\n", app.engine.Interval().Seconds())
	fmt.Println("3. Start autoclicker")
	fmt.Println("4. Stop autoclicker")
	fmt.Println("5. Show recorded clicks")
	fmt.Println("6. Exit")
	fmt.Printf("Press %s at any time to stop the autoclicker.\n", keyLabel(app.config.EmergencyStop.Key))
	fmt.Print("Choose an option: ")
}

func (app *Application) handleChoice(choice string) bool {
	switch choice {
	case "1":
		app.toggleRecording()
	case "2":
		app.setInterval()
	case "3":
		app.startPlayback()
	case "4":
		app.engine.StopPlayback()
		okColor.Println("Autoclicker stopped.")
	case "5":
		app.showPoints()
	case "6":
		return true
	default:
		errColor.Println("Invalid option")
	}
	return false
}

func (app *Application) toggleRecording() {
	if app.engine.ToggleRecording() == recording.Recording {
		okColor.Println("Started recording clicks. Click anywhere to record.")
		return
	}
	okColor.Printf("Stopped recording clicks. %d recorded.\n", len(app.engine.Points()))
}

func (app *Application) setInterval() {
	fmt.Print("Interval in seconds: ")
	var text string
	select {
	case <-app.ctx.Done():
		return
	case line, ok := <-app.lines:
		if !ok {
			return
		}
		text = strings.TrimSpace(line)
	}

	if err := app.engine.SetInterval(text); err != nil {
		errColor.Printf("Invalid interval %q, keeping %.3gs\n", text, app.engine.Interval().Seconds())
		return
	}
	okColor.Printf("Interval set to %.3gs\n", app.engine.Interval().Seconds())
}

func (app *Application) startPlayback() {
	err := app.engine.StartPlayback()
	switch {
	case errors.Is(err, playback.ErrEmptySequence):
		warnColor.Println("No clicks recorded yet. Record some clicks first.")
	case errors.Is(err, playback.ErrInvalidInterval):
		errColor.Println("Interval must be a positive number of seconds.")
	case err != nil:
		errColor.Printf("Could not start autoclicker: %v\n", err)
	default:
		okColor.Printf("Autoclicker started with interval %.3gs.\n", app.engine.Interval().Seconds())
	}
}

func (app *Application) showPoints() {
	points := app.engine.Points()
	if len(points) == 0 {
		warnColor.Println("No clicks recorded yet.")
		return
	}
	for i, p := range points {
		fmt.Printf("%d: (%d, %d)\n", i+1, p.X, p.Y)
	}
}

// readLines feeds stdin to the menu so the loop can also wake on cancellation.
func (app *Application) readLines() {
	defer close(app.lines)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case app.lines <- scanner.Text():
		case <-app.ctx.Done():
			return
		}
	}
}

// watchConfig picks up interval changes written to the config file while the
// program runs. Only interval_seconds is live; other settings need a restart.
func (app *Application) watchConfig() {
	if app.config.Source == "" || app.config.Source == config.DefaultsSource {
		return
	}
	path := app.config.Source
	err := config.Watch(app.ctx, path, func(cfg *config.Config, err error) {
		if err != nil {
			app.logger.Warn("ignoring config reload", zap.String("path", path), zap.Error(err))
			return
		}
		if err := app.engine.SetIntervalSeconds(cfg.Playback.IntervalSeconds); err != nil {
			app.logger.Warn("ignoring reloaded interval", zap.String("path", path), zap.Error(err))
		}
	})
	if err != nil {
		app.logger.Warn("config watch disabled", zap.String("path", path), zap.Error(err))
	}
}

func (app *Application) handleSignals(sigChan chan os.Signal) {
	for {
		select {
		case <-app.ctx.Done():
			return
		case sig := <-sigChan:
			fmt.Printf("\nReceived signal: %v\n", sig)
			if app.engine.PlaybackState() == playback.Running {
				app.engine.StopPlayback()
				okColor.Println("Autoclicker stopped.")
				continue
			}
			app.cancel()
			return
		}
	}
}

// keyLabel names a configured key the way the operator sees it.
func keyLabel(key string) string {
	switch key {
	case "esc", "escape":
		return "Escape"
	case "":
		return key
	default:
		return strings.ToUpper(key[:1]) + key[1:]
	}
}

func main() {
	configPath := flag.String("config", "", "path to the TOML configuration file (default "+config.DefaultFileName+" if present)")
	flag.Parse()

	app, err := NewApplication(*configPath)
	if err != nil {
		log.Fatalf("Application error: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
