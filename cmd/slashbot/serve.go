package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/susu3304/slashbot/internal/api"
	"github.com/susu3304/slashbot/internal/commands"
	"github.com/susu3304/slashbot/internal/config"
	"github.com/susu3304/slashbot/internal/db"
	"github.com/susu3304/slashbot/internal/dict"
	"github.com/susu3304/slashbot/internal/directory"
	"github.com/susu3304/slashbot/internal/ledger"
	"github.com/susu3304/slashbot/internal/logger"
	"github.com/susu3304/slashbot/internal/responder"
	"github.com/susu3304/slashbot/internal/store"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the enabled slash commands over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer log.Sync()

			return serve(cmd.Context(), cfg, log)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	snapshots, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	hooks, err := buildHooks(cfg, snapshots, log)
	if err != nil {
		return err
	}

	apiServer := api.New(cfg, hooks, log)

	// Start API server
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	// Wait for signal to stop
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return <-errCh
}

func buildHooks(cfg *config.Config, snapshots *backend, log *zap.Logger) ([]api.Hook, error) {
	var hooks []api.Hook

	if cfg.CoffeeToken != "" {
		l, err := ledger.New(snapshots.Blob("coffee", cfg.CoffeePersistenceFile), log.Named("coffee"))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, api.Hook{Path: "/coffee", Token: cfg.CoffeeToken, Command: commands.NewCoffee(l, log.Named("coffee"))})
	}

	if cfg.ResponderToken != "" {
		rules, err := responder.Load(cfg.ResponderConf, log.Named("responder"))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, api.Hook{Path: "/responder", Token: cfg.ResponderToken, Command: commands.NewResponder(rules)})
	}

	if cfg.SushiToken != "" {
		hooks = append(hooks, api.Hook{Path: "/sushi", Token: cfg.SushiToken, Command: commands.NewSushi(log.Named("sushi"))})
	}

	if cfg.PhoneToken != "" {
		d, err := directory.Load(cfg.PhoneInputFile, log.Named("phone"))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, api.Hook{Path: "/phone", Token: cfg.PhoneToken, Command: commands.NewPhone(d)})
	}

	if cfg.MemeToken != "" {
		phrases, err := dict.New(snapshots.Blob("meme", cfg.MemePersistenceFile), log.Named("meme"))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, api.Hook{Path: "/meme", Token: cfg.MemeToken, Command: commands.NewMeme(phrases, log.Named("meme"))})
	}

	if cfg.CerinoToken != "" {
		hooks = append(hooks, api.Hook{Path: "/cerino", Token: cfg.CerinoToken, Command: commands.NewCerino(nil)})
	}

	if cfg.CceToken != "" {
		names, err := directory.LoadNames(cfg.CceNamesFile, log.Named("cce"))
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, api.Hook{Path: "/cce", Token: cfg.CceToken, Command: commands.NewCce(names, cfg.CcePhotoURL)})
	}

	return hooks, nil
}

// backend hands out snapshot blobs from the configured LEDGER_BACKEND.
type backend struct {
	database *db.DB
	redis    interface{ Close() error }
	blob     func(name string) store.Blob
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.LedgerBackend {
	case config.BackendRedis:
		client := store.NewRedisClient(store.RedisOptions{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddress, err)
		}
		b.redis = client
		b.blob = func(name string) store.Blob { return store.NewRedis(client, "slashbot:"+name) }

	case config.BackendPostgres:
		// Connect to database
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Run migrations
		if err := database.RunMigrations(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		b.database = database
		b.blob = func(name string) store.Blob { return database.Snapshot(name) }
	}

	log.Info("Snapshot backend ready", zap.String("backend", cfg.LedgerBackend))
	return b, nil
}

// Blob returns the snapshot called name. The file backend stores it at path.
func (b *backend) Blob(name, path string) store.Blob {
	if b.blob == nil {
		return store.NewFile(path)
	}
	return b.blob(name)
}

func (b *backend) Close() {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.database != nil {
		b.database.Close()
	}
}
