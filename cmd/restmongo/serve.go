package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/httpapi"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/store"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/config"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/sample"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample models over a REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler, closeStore, err := a.handler(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				a.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("store", a.cfg.Store.Driver))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// handler builds the REST API over the configured store. The returned func
// releases the store connection.
func (a *app) handler(ctx context.Context) (http.Handler, func(), error) {
	st, closeStore, err := openStore(ctx, a.cfg.Store, a.logger)
	if err != nil {
		return nil, nil, err
	}
	manager, err := sampleManager()
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	var resources []*httpapi.Resource
	for _, model := range sample.All() {
		r, err := httpapi.NewResource(manager, model, st, httpapi.WithLogger(a.logger))
		if errors.Is(err, domain.ErrNoPrimaryKey) {
			a.logger.Debug("model not served", zap.Error(err))
			continue
		}
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		resources = append(resources, r)
	}
	return httpapi.NewRouter(a.logger, resources...), closeStore, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (domain.Store, func(), error) {
	if cfg.Driver != "redis" {
		return store.NewMemory(store.WithLogger(logger)), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	st := store.NewRedis(client, store.WithPrefix(cfg.Redis.Prefix), store.WithLogger(logger))
	return st, func() { _ = client.Close() }, nil
}
