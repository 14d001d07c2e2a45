package main

// @title Gothink API
// @version 1.0
// @description Bounded, branchable reasoning-history engine with security screening, session quotas, and MCTS-guided suggestions
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/gothink/gothink
// @contact.email support@gothink.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api"
	"github.com/gothink/gothink/pkg/api/events"
	"github.com/gothink/gothink/pkg/api/handlers"
	"github.com/gothink/gothink/pkg/eventbus"
	"github.com/gothink/gothink/pkg/logger"
	"github.com/gothink/gothink/pkg/metrics"
	"github.com/gothink/gothink/pkg/reasoning"
	"github.com/gothink/gothink/pkg/telemetry/tracing"
	"github.com/gothink/gothink/pkg/version"
)

var (
	configPath     = flag.String("config", "", "Path to configuration file")
	watchConfig    = flag.Bool("watch-config", false, "Reload hot-reloadable settings when the config file changes")
	validateConfig = flag.Bool("validate-config", false, "Validate configuration and exit")
	versionFlag    = flag.Bool("version", false, "Print version information")
	helpFlag       = flag.Bool("help", false, "Print help information")

	// CLI overrides
	appName    = flag.String("app-name", "", "Override app name")
	serverPort = flag.Int("port", 0, "Override server port")
	logLevel   = flag.String("log-level", "", "Override log level")
	debugMode  = flag.Bool("debug", false, "Enable debug mode")
)

func main() {
	flag.Parse()

	// Print help
	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	// Print version
	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	// Build CLI overrides map
	overrides := buildOverrides()

	// Load configuration
	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration:\n%s\n", err)
		os.Exit(1)
	}

	// Load already validated; report and exit when only a check was asked for.
	if *validateConfig {
		source := *configPath
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Printf("Configuration OK (%s)\n", source)
		os.Exit(0)
	}

	// The binary knows its own version; /status reports the stamped build.
	cfg.App.Version = version.Version

	// Initialize logger with configuration
	logCfg := &logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if cfg.App.Debug || *debugMode {
		logCfg.Level = logger.DebugLevel
	}
	log := logger.New(logCfg)
	logger.SetGlobal(log)

	log.Info("Starting Gothink",
		"version", version.Version,
		"buildTime", version.BuildTime,
		"gitCommit", version.GitCommit,
		"app", cfg.App.Name,
		"environment", cfg.App.Environment,
	)

	log.Debug("Configuration loaded", "config", cfg.String())

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.App.Name, version.Version)
	if err != nil {
		log.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Error shutting down tracing", "error", err)
		}
	}()
	if cfg.Tracing.Enabled {
		log.Info("Initialized tracing", "exporter", cfg.Tracing.Exporter, "endpoint", cfg.Tracing.Endpoint)
	}

	// Initialize metrics manager
	metricsCfg := metrics.DefaultConfig()
	metricsCfg.Enabled = cfg.Metrics.Enabled
	metricsCfg.Port = cfg.Metrics.Port
	metricsCfg.Path = cfg.Metrics.Path
	metricsManager := metrics.NewManager(metricsCfg)

	// Start metrics server if enabled
	if metricsManager.Enabled() {
		go func() {
			log.Info("Starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			if err := metricsManager.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				log.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Initialize the lifecycle event bus and publisher
	bus := eventbus.NewMemoryBus()
	publisher, err := eventbus.NewPublisher(publishOrigin(), bus, eventbus.DefaultRetryConfig(), metricsManager)
	if err != nil {
		log.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}

	// Initialize and start the reasoning hub
	hub := reasoning.NewReasoningHub(cfg, log,
		reasoning.WithPublisher(publisher),
		reasoning.WithMetrics(metricsManager),
	)
	if err := hub.Start(ctx); err != nil {
		log.Error("Failed to start reasoning hub", "error", err)
		os.Exit(1)
	}

	// Bridge bus envelopes to live API subscribers
	broadcaster := events.NewBroadcaster()
	bridge, err := events.NewBridge(bus, broadcaster, log, events.WithBridgeMetrics(metricsManager))
	if err != nil {
		log.Error("Failed to create event bridge", "error", err)
		os.Exit(1)
	}
	if err := bridge.Start(ctx); err != nil {
		log.Error("Failed to start event bridge", "error", err)
		os.Exit(1)
	}

	// Fan bridged events out to websocket clients
	wsHandler := handlers.NewWebSocketHandler(log, handlers.WebSocketConfig{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
	}, handlers.WithWebSocketMetrics(metricsManager))

	eventCh := broadcaster.Subscribe(64)
	go func() {
		for ev := range eventCh {
			if err := wsHandler.Broadcast(handlers.EventMessage(ev)); err != nil {
				log.Warn("Failed to broadcast event", "type", ev.Type, "error", err)
			}
		}
	}()

	// Initialize HTTP server with handlers
	apiHandlers := &api.Handlers{
		Thought:   handlers.NewThoughtHandler(hub, log),
		Health:    handlers.NewHealthHandler(hub),
		WebSocket: wsHandler,
		Metrics:   metricsManager,
	}

	httpServer := api.NewHTTPServer(cfg, log, apiHandlers)

	// Start HTTP server in a separate goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
		if err := httpServer.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Watch the config file for hot-reloadable changes
	var watcher *config.Watcher
	if *watchConfig && *configPath != "" {
		watcher, err = config.NewWatcher(*configPath, config.NewLoader())
		if err != nil {
			log.Error("Failed to create config watcher", "error", err)
			os.Exit(1)
		}

		current := config.ExtractHotReloadable(cfg)
		watcher.OnChange(func(updated *config.Config) {
			next := config.ExtractHotReloadable(updated)
			if !current.Changed(next) {
				return
			}
			log.SetLevel(logger.ParseLevel(next.LogLevel))
			hub.ApplyHotReload(next)
			current = next
		})

		go func() {
			if err := watcher.Watch(ctx); err != nil {
				log.Error("Config watcher error", "error", err)
			}
		}()
		log.Info("Watching configuration file", "path", *configPath)
	}

	log.Info("Gothink is running",
		"http_port", cfg.Server.Port,
		"metrics_port", cfg.Metrics.Port,
		"max_history", cfg.Thinking.MaxHistory,
	)
	log.Info("Press Ctrl+C to stop")

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig)
	case err := <-serverErrChan:
		log.Error("HTTP server error", "error", err)
	case <-ctx.Done():
		log.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server first
	log.Info("Shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			log.Error("Error stopping config watcher", "error", err)
		}
	}

	// Stop the event pipeline, then the hub
	bridge.Stop()
	broadcaster.Close()
	wsHandler.Close()

	log.Info("Stopping reasoning hub")
	if err := hub.Stop(shutdownCtx); err != nil {
		log.Error("Error during hub shutdown", "error", err)
	}

	log.Info("Gothink stopped gracefully")
}

func buildOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})

	if *appName != "" {
		overrides["app.name"] = *appName
	}
	if *serverPort != 0 {
		overrides["server.port"] = *serverPort
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}
	if *debugMode {
		overrides["app.debug"] = true
	}

	return overrides
}

// publishOrigin names this process instance on the event bus.
func publishOrigin() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return fmt.Sprintf("gothink-%s", host)
}

func printVersion() {
	info := version.Get()
	fmt.Printf("Gothink - Reasoning History Engine\n")
	fmt.Printf("Version:    %s\n", info.Version)
	fmt.Printf("Build Time: %s\n", info.BuildTime)
	fmt.Printf("Git Commit: %s\n", info.GitCommit)
	fmt.Printf("Go Version: %s\n", info.GoVersion)
}

func printHelp() {
	fmt.Printf("Gothink - Bounded, branchable reasoning-history engine with MCTS-guided suggestions\n\n")
	fmt.Printf("Usage: gothink [options]\n\n")
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  gothink                                   # Run with default config\n")
	fmt.Printf("  gothink -config config.yaml               # Use specific config file\n")
	fmt.Printf("  gothink -config config.yaml -watch-config # Hot-reload security settings\n")
	fmt.Printf("  gothink -config config.yaml -validate-config # Check the config and exit\n")
	fmt.Printf("  gothink -port 9090 -log-level debug       # Override specific options\n")
	fmt.Printf("  gothink -version                          # Print version info\n")
}
