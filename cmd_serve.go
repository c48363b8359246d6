package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nstehr/arena-core/agent"
	"github.com/nstehr/arena-core/ipc"
	"github.com/nstehr/arena-core/redis"
	"github.com/nstehr/arena-core/server"
	"github.com/nstehr/arena-core/telemetry"
	"github.com/nstehr/arena-core/tuning"
)

var (
	httpAddr   string
	socketPath string
	tuningPath string
	redisAddr  string
	deathTTL   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve decisions over HTTP, websocket and a unix socket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "http-addr", ":8000", "HTTP listen address; empty disables HTTP")
	serveCmd.Flags().StringVar(&socketPath, "socket", "", "unix socket path for co-located bridges; empty disables it")
	serveCmd.Flags().StringVar(&tuningPath, "tuning", "", "YAML tuning override file")
	serveCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for death snapshots; empty keeps them in memory")
	serveCmd.Flags().DurationVar(&deathTTL, "death-ttl", 24*time.Hour, "how long death snapshots are kept in Redis")
}

func runServe(cmd *cobra.Command, args []string) error {
	applyEnv(cmd, "http-addr", "ARENA_HTTP_ADDR")
	applyEnv(cmd, "socket", "ARENA_SOCKET")
	applyEnv(cmd, "tuning", "ARENA_TUNING")
	applyEnv(cmd, "redis-addr", "ARENA_REDIS_ADDR")

	fmt.Fprintln(os.Stderr, banner)
	slog.Info("starting arena")

	t, err := tuning.Load(tuningPath)
	if err != nil {
		return err
	}

	store, err := newStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := agent.NewMonitor(telemetry.NewTracker(), store)
	go monitor.Start(ctx)

	a, err := agent.New(t, monitor)
	if err != nil {
		return err
	}
	go watchRetune(ctx, a)

	if socketPath != "" {
		listener, err := listenSocket(socketPath)
		if err != nil {
			return err
		}
		defer listener.Close()
		defer os.Remove(socketPath)
		go acceptLoop(ctx, listener, a)
	}

	var srv *http.Server
	if httpAddr != "" {
		srv = &http.Server{
			Addr: httpAddr,
			Handler: server.NewHandler(server.Config{
				Player:  a,
				Store:   store,
				Monitor: monitor,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("listening on http", "addr", httpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}
	return nil
}

func newStore() (telemetry.SnapshotStore, error) {
	if redisAddr == "" {
		slog.Info("death snapshots kept in memory")
		return telemetry.NewMemoryStore(), nil
	}
	client, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	store, err := telemetry.NewRedisStore(&telemetry.RedisConfig{Client: client, TTL: deathTTL})
	if err != nil {
		return nil, err
	}
	slog.Info("death snapshots kept in redis", "addr", redisAddr, "ttl", deathTTL)
	return store, nil
}

// watchRetune reloads the tuning file on SIGHUP. A bad file is logged and
// the running tuning is kept.
func watchRetune(ctx context.Context, a *agent.Agent) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			t, err := tuning.Load(tuningPath)
			if err != nil {
				slog.Error("retune failed", "path", tuningPath, "error", err)
				continue
			}
			if err := a.Retune(t); err != nil {
				slog.Error("retune failed", "path", tuningPath, "error", err)
				continue
			}
			slog.Info("tuning reloaded", "path", tuningPath)
		}
	}
}

func listenSocket(path string) (net.Listener, error) {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean up socket %s: %w", path, err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket %s: %w", path, err)
	}
	slog.Info("listening on domain socket", "path", path)
	return listener, nil
}

func acceptLoop(ctx context.Context, listener net.Listener, a *agent.Agent) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go handleConn(conn, a)
	}
}

func handleConn(conn net.Conn, a *agent.Agent) {
	c := ipc.NewConnection(conn, nil)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello())
	c.RegisterHandler(ipc.TypeLevelData, a.HandleLevelData())
	c.ReadLoop()
}
