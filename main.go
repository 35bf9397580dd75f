// Command spriteboard serves 2D sprite boards with layout and collision
// detection.
//
// It supports two modes:
//  1. "serve" (default) runs the HTTP server exposing the REST API, the
//     WebSocket hub and an /mcp HTTP endpoint, plus the tick clock
//  2. "mcp" runs an MCP stdio server, proxying to an external API when one
//     answers and to an internal one otherwise
//
// Flags control host/port, config and session directories, debug logging,
// the tick interval and optional ngrok tunneling. Every flag can also be set
// through the environment, and a .env file is loaded when present.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/spriteboard/api"
	"github.com/wricardo/spriteboard/game/clock"
	"github.com/wricardo/spriteboard/game/config"
	"github.com/wricardo/spriteboard/game/service"
	"github.com/wricardo/spriteboard/game/session"
	"github.com/wricardo/spriteboard/transport/mcp"
	"github.com/wricardo/spriteboard/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "spriteboard"
)

// Settings are process-level knobs that rarely change and have no flag.
type Settings struct {
	SessionTTL      time.Duration `env:"SPRITEBOARD_SESSION_TTL" envDefault:"24h"`
	CleanupPeriod   time.Duration `env:"SPRITEBOARD_CLEANUP_PERIOD" envDefault:"1h"`
	SyncPeriod      time.Duration `env:"SPRITEBOARD_SYNC_PERIOD" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SPRITEBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	WSSendBuffer    int           `env:"SPRITEBOARD_WS_SEND_BUFFER" envDefault:"256"`
	ExternalAPI     string        `env:"SPRITEBOARD_EXTERNAL_API" envDefault:"http://localhost:8080"`
	ProbeAttempts   int           `env:"SPRITEBOARD_PROBE_ATTEMPTS" envDefault:"3"`
}

func loadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "serve sprite boards with layout and collision detection",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory session snapshots are persisted to",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.DurationFlag{
				Name:    "tick-interval",
				Value:   clock.DefaultInterval,
				Usage:   "period of the tick clock, 0 disables it",
				Sources: cli.EnvVars("TICK_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint (default)",
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  runMCP,
			},
		},
	}
}

// setupLogging configures the global zerolog logger. Component loggers are
// derived from it, so this runs before anything is constructed.
func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires session/config managers and the game service,
// restoring persisted sessions.
func initializeServices(configDir, sessionsDir string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Warn().Err(err).Msg("failed to load persisted sessions")
	}

	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// newHandler mounts the REST API at the root and the MCP endpoint at /mcp.
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.Handle("/mcp", mcpClient.HTTPHandler())
	return mux
}

// runBackground starts the hub, the tick clock and the session maintenance
// loops on g.
func runBackground(ctx context.Context, g *errgroup.Group, svcs *services, hub *websocket.Hub, settings Settings, interval time.Duration) {
	g.Go(func() error { return hub.Run(ctx) })
	if interval > 0 {
		clk := clock.New(svcs.game, interval, hub)
		g.Go(func() error { return clk.Run(ctx) })
	} else {
		log.Info().Msg("tick clock disabled")
	}
	g.Go(func() error { return svcs.sessions.RunCleanup(ctx, settings.CleanupPeriod, settings.SessionTTL) })
	g.Go(func() error { return svcs.sessions.RunSync(ctx, settings.SyncPeriod) })
}

// serveUntilDone serves srv on l and shuts it down once ctx is done.
func serveUntilDone(ctx context.Context, g *errgroup.Group, srv *http.Server, l net.Listener, timeout time.Duration) {
	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// runServe starts the HTTP server with REST API, WebSocket hub, tick clock
// and an /mcp endpoint. If ngrok is enabled it also provisions a public
// tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	svcs, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	hub := websocket.NewHub(websocket.WithSendBuffer(settings.WSSendBuffer))
	handler := newHandler(api.NewServer(svcs.game, hub), mcp.NewClient("http://"+addr))
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	runBackground(gctx, g, svcs, hub, settings, cmd.Duration("tick-interval"))
	serveUntilDone(gctx, g, httpServer, listener, settings.ShutdownTimeout)

	log.Info().
		Str("version", Version).
		Str("rest", "http://"+addr+"/api").
		Str("websocket", "ws://"+addr+"/ws?session=<id>").
		Str("mcp", "http://"+addr+"/mcp").
		Msg("server listening")

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			return runNgrok(gctx, handler, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
		})
	}

	err = g.Wait()
	if saveErr := svcs.sessions.SaveAllSessions(); saveErr != nil {
		log.Warn().Err(saveErr).Msg("failed to save sessions on shutdown")
	}
	log.Info().Msg("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done. A
// missing auth token only disables the tunnel.
func runNgrok(ctx context.Context, handler http.Handler, authToken, domain string) error {
	logger := log.With().Str("component", "ngrok").Logger()
	if authToken == "" {
		logger.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return nil
	}

	var opts []ngrokConfig.HTTPEndpointOption
	if domain != "" {
		opts = append(opts, ngrokConfig.WithDomain(domain))
	}

	tun, err := ngrok.Listen(ctx, ngrokConfig.HTTPEndpoint(opts...), ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error().Err(err).Msg("failed to start ngrok tunnel")
		return nil
	}
	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	logger.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("ngrok server error")
	}
	logger.Info().Msg("ngrok tunnel closed")
	return nil
}

// runMCP runs an MCP stdio server. It reuses an external API when one
// answers; otherwise it starts an internal HTTP API on a random loopback
// port and targets that.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	baseURL := settings.ExternalAPI
	if err := mcp.Probe(ctx, baseURL, settings.ProbeAttempts); err != nil {
		log.Info().Err(err).Msg("no external API server found, starting internal HTTP server")

		svcs, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(websocket.WithSendBuffer(settings.WSSendBuffer))
		runBackground(gctx, g, svcs, hub, settings, cmd.Duration("tick-interval"))
		serveUntilDone(gctx, g, &http.Server{Handler: api.NewServer(svcs.game, hub)}, listener, settings.ShutdownTimeout)

		baseURL = "http://" + listener.Addr().String()
		defer func() {
			if err := svcs.sessions.SaveAllSessions(); err != nil {
				log.Warn().Err(err).Msg("failed to save sessions on shutdown")
			}
		}()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	mcpClient := mcp.NewClient(baseURL)
	g.Go(func() error {
		defer cancel()
		return server.NewStdioServer(mcpClient.GetMCPServer()).Listen(gctx, os.Stdin, os.Stdout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
