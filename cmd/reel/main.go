package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source/tmdb"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/httpapi"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "config file (default "+adapter.DefaultConfigFile()+")")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reel [flags] [serve]\n\n")
		fmt.Fprintf(os.Stderr, "Without a command reel starts the terminal UI; serve starts the JSON API.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	mode := flag.Arg(0)
	if mode != "" && mode != "serve" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(configPath, mode == "serve"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the composed services
type app struct {
	store   *store.LocalStore
	catalog *service.CatalogService
	session *service.SessionService
	prefs   *service.PreferenceService
	trailer *service.TrailerService
}

func run(configPath string, serve bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting reel", "version", Version, "serve", serve)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, configPath); err != nil {
			return err
		}
	}

	a, err := compose(cfg, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	if serve {
		return runServer(cfg, a, logger)
	}
	return runTUI(a, logger)
}

// compose wires storage, the catalog client and the services
func compose(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	localStore, err := store.NewLocalStore(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file %s: %w", cfg.Storage.Path, err)
	}

	client := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, cfg.TMDB.Timeout, logger)

	window, err := domain.ParseTimeWindow(cfg.Catalog.DefaultTimeWindow)
	if err != nil {
		logger.Warn("ignoring configured time window", "error", err)
		window = domain.TimeWindowDay
	}
	opts := service.CatalogOptions{
		DiscardStale:  cfg.Catalog.DiscardStaleResponses,
		DefaultWindow: window,
	}

	launcher := adapter.NewLauncher(cfg.Trailer.Command, cfg.Trailer.Args, logger)

	a := &app{
		store:   localStore,
		catalog: service.NewCatalogService(client, localStore, opts, logger),
		session: service.NewSessionService(localStore, cfg.Auth.LoginDelay, logger),
		prefs:   service.NewPreferenceService(localStore, logger),
		trailer: service.NewTrailerService(launcher, logger),
	}

	if a.session.LoadSession() {
		logger.Info("restored session")
	}
	return a, nil
}

func runTUI(a *app, logger *slog.Logger) error {
	model := tui.NewModel(a.catalog, a.session, a.prefs, a.trailer, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func runServer(cfg *adapter.Config, a *app, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(a.catalog, a.session, a.prefs, logger).
		WithImageBaseURL(cfg.TMDB.ImageBaseURL)

	fmt.Printf("Serving on http://%s (Ctrl+C to stop)\n", cfg.Server.Addr)
	if err := server.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow asks for the catalog API key on first run and saves it
func runSetupFlow(cfg *adapter.Config, configPath string) error {
	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println()
	fmt.Println("reel needs a TMDB API key (v3 auth).")
	fmt.Println("Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		key, err := readAPIKey()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}
		cfg.TMDB.APIKey = key
		break
	}

	if err := adapter.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// readAPIKey reads the key without echo when stdin is a terminal
func readAPIKey() (string, error) {
	fmt.Print("API key: ")

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		keyBytes, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(keyBytes)), nil
	}

	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
