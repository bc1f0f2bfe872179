package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
	"github.com/udisondev/la2go-blackmarket/internal/config"
	"github.com/udisondev/la2go-blackmarket/internal/data"
	"github.com/udisondev/la2go-blackmarket/internal/db"
	"github.com/udisondev/la2go-blackmarket/internal/gameloop"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver/admin/commands"
	"github.com/udisondev/la2go-blackmarket/internal/world"
)

const GameConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	// Load config FIRST to determine log level
	cfgPath := GameConfigPath
	if p := os.Getenv(config.EnvConfigPath); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading game config: %w", err)
	}

	logger, logCloser := newLogger(cfg, os.Stdout)
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("la2go black market server starting", "config", cfgPath, "log_level", cfg.LogLevel)

	worldData, err := data.LoadWorldData(cfg.WorldData)
	if err != nil {
		return fmt.Errorf("loading world data: %w", err)
	}
	assets := worldData.AssetTable()

	w := world.New()
	defer w.Close()
	if err := worldData.Populate(w); err != nil {
		return fmt.Errorf("populating world: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// The loop and the history writer outlive gctx: shutdown stops them after
	// the market has been closed on the loop.
	loop := gameloop.New(gameloop.DefaultQueueSize)
	g.Go(func() error {
		if err := loop.Start(context.WithoutCancel(gctx)); err != nil {
			return fmt.Errorf("game loop: %w", err)
		}
		return nil
	})

	var (
		history  blackmarket.HistoryRecorder
		recorder *db.HistoryWriter
	)
	if cfg.Database.Enabled {
		writer, closeDB, err := openHistory(gctx, cfg)
		if err != nil {
			loop.Stop()
			return err
		}
		defer closeDB()
		recorder, history = writer, writer
		g.Go(func() error {
			if err := recorder.Start(context.WithoutCancel(gctx)); err != nil {
				return fmt.Errorf("history writer: %w", err)
			}
			return nil
		})
	}

	msgs := blackmarket.NewMessages(cfg.Blackmarket.Messages)
	handler := admin.NewHandler(msgs)
	gateway := gameserver.NewServer(cfg, w, loop, handler, msgs)

	market, err := blackmarket.New(cfg.Blackmarket, blackmarket.Deps{
		World:       w,
		Assets:      assets,
		Dispatcher:  loop,
		Broadcaster: gateway.Clients(),
		History:     history,
		Messages:    msgs,
	})
	if err != nil {
		shutdown(loop, nil, recorder)
		return fmt.Errorf("creating black market: %w", err)
	}
	commands.RegisterAll(handler, market)

	if !loop.Enqueue(market.Start) {
		return errors.New("game loop stopped before black market start")
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdown(loop, market, recorder)
		return nil
	})

	go readConsole(gctx, os.Stdin, loop, handler, admin.NewConsoleCaller(os.Stdout))

	g.Go(func() error {
		slog.Info("starting player gateway", "port", cfg.Port)
		if err := gateway.Run(gctx); err != nil {
			return fmt.Errorf("player gateway: %w", err)
		}
		return nil
	})

	// Wait for all components to finish
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// shutdown closes the market on the game loop so no queued command can reopen
// it, stops the loop in the same task, then drains the history writer so the
// final despawn record is written.
func shutdown(loop *gameloop.Loop, market *blackmarket.Market, history *db.HistoryWriter) {
	stop := func() {
		if market != nil {
			market.Stop()
		}
		loop.Stop()
	}
	if !loop.Call(stop) {
		slog.Warn("game loop stopped early, closing black market directly")
		stop()
	}
	if history != nil {
		history.Close()
	}
}

// openHistory connects to PostgreSQL, migrates the schema and returns the
// async appearance writer.
func openHistory(ctx context.Context, cfg config.GameServer) (*db.HistoryWriter, func(), error) {
	dsn := cfg.Database.DSN()
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	slog.Info("market history enabled", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	repo := db.NewHistoryRepository(database.Pool())
	return db.NewHistoryWriter(repo, cfg.Blackmarket.NpcID), database.Close, nil
}

// readConsole executes console lines as commands on the game loop.
// A leading "/" is optional.
func readConsole(ctx context.Context, in io.Reader, loop *gameloop.Loop, handler *admin.Handler, console *admin.ConsoleCaller) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "/")
		if line == "" {
			continue
		}
		if !loop.Enqueue(func() { handler.Handle(console, line) }) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("console input closed", "error", err)
	}
}
