package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/api"
	"github.com/kolapsis/graphdesk/internal/config"
	"github.com/kolapsis/graphdesk/internal/events"
	"github.com/kolapsis/graphdesk/internal/graph"
	graphmcp "github.com/kolapsis/graphdesk/internal/mcp"
	authmw "github.com/kolapsis/graphdesk/internal/mcp/middleware"
	"github.com/kolapsis/graphdesk/internal/store"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "version":
		fmt.Printf("graphdesk %s\n", version)
	case "check":
		cmdCheck(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: graphdesk <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the Graphdesk server\n")
	fmt.Fprintf(os.Stderr, "  check     Validate configuration\n")
	fmt.Fprintf(os.Stderr, "  version   Print version\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	stdio := fs.Bool("stdio", false, "serve MCP over stdio instead of HTTP")
	_ = fs.Parse(args) // ExitOnError handles errors

	config.LoadDotenv()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg, *stdio)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg, *stdio); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args) // ExitOnError handles errors

	config.LoadDotenv()

	_, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("configuration is valid")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogging configures the default slog logger. In stdio mode logs
// go to stderr so they cannot corrupt the MCP protocol stream on stdout.
func setupLogging(cfg *config.Config, stdio bool) {
	var level slog.Level
	switch cfg.Server.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stdout
	if stdio {
		out = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}),
	}

	if cfg.Server.LogFile != "" {
		f, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			slog.Warn("failed to open log file, using stdout only", "path", cfg.Server.LogFile, "error", err)
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		}
	}

	logger := slog.New(slog.NewMultiHandler(handlers...))
	slog.SetDefault(logger)
}

func run(ctx context.Context, cfg *config.Config, stdio bool) error {
	// --- SQLite token cache ---
	dbPath := config.ExpandHome(cfg.Database.Path)
	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := db.Cleanup(); err != nil {
					slog.Warn("token cache cleanup failed", "error", err)
				}
			}
		}
	}()

	// --- Microsoft Graph client ---
	tokens, err := graph.NewCredentialTokenSource(
		cfg.Graph.TenantID,
		cfg.Graph.ClientID,
		cfg.Graph.ClientSecret,
		cfg.Graph.Scopes,
		db,
	)
	if err != nil {
		return fmt.Errorf("graph credentials: %w", err)
	}
	client := graph.NewClient(cfg.Graph.BaseURL, tokens)

	// --- Event broadcaster ---
	broadcaster := events.NewBroadcaster()
	defer broadcaster.Close()

	// --- MCP server ---
	mcpServer := graphmcp.NewServer(&graphmcp.Deps{
		Graph:   client,
		Publish: broadcaster,
		Planner: cfg.Planner,
		Version: version,
	})

	if stdio {
		slog.Info("starting graphdesk on stdio", "version", version)
		return server.ServeStdio(mcpServer)
	}

	slog.Info("starting graphdesk",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port)

	mcpHTTP := server.NewStreamableHTTPServer(mcpServer)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(authmw.SecurityHeaders)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
		r.Use(authmw.BearerAuth(cfg.API.Token))
		r.Handle("/mcp", mcpHTTP)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// REST proxy and SSE event stream
	r.Mount("/", api.NewRouter(&api.Deps{
		Planner:     client,
		Broadcaster: broadcaster,
		Publish:     broadcaster,
		PlanID:      cfg.Planner.DefaultPlanID,
		Token:       cfg.API.Token,
	}))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: /events connections stay open indefinitely.
		IdleTimeout: 2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("graphdesk is ready", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
