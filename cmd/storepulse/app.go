package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"github.com/storepulse/storepulse/internal/api"
	v1 "github.com/storepulse/storepulse/internal/api/v1"
	"github.com/storepulse/storepulse/internal/clickhouse"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain/sale"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/postgres"
	chrepo "github.com/storepulse/storepulse/internal/repository/clickhouse"
	pgrepo "github.com/storepulse/storepulse/internal/repository/postgres"
	"github.com/storepulse/storepulse/internal/sentry"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/types"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// coreModule provides everything up to the analytics service.
func coreModule(cfg *config.Configuration) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,
			sentry.NewSentryService,
			provideSaleRepository,
			service.NewServiceParams,
			service.NewAnalyticsService,
		),
		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, cfg *config.Configuration) (*logger.Logger, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.L = log
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return log.Close()
		},
	})
	return log, nil
}

func provideSaleRepository(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger, sentrySvc *sentry.Service) (sale.Repository, error) {
	ctx := context.Background()

	switch cfg.Analytics.Store {
	case types.SaleStoreClickHouse:
		store, err := clickhouse.NewClickHouseStore(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
		return chrepo.NewSaleRepository(store, log, sentrySvc), nil
	case types.SaleStorePostgres:
		client, err := postgres.NewClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return pgrepo.NewSaleRepository(client, log, sentrySvc), nil
	default:
		return nil, ierr.NewErrorf("unknown sale store %q", cfg.Analytics.Store).
			WithHint("analytics.store must be postgres or clickhouse").
			Mark(ierr.ErrValidation)
	}
}

func provideHandlers(analyticsService service.AnalyticsService, log *logger.Logger) api.Handlers {
	return api.Handlers{
		Analytics: v1.NewAnalyticsHandler(analyticsService, log),
	}
}

func startProfiler(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) {
	if !cfg.Pyroscope.Enabled {
		return
	}

	var profiler *pyroscope.Profiler
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p, err := pyroscope.Start(pyroscope.Config{
				ApplicationName:   cfg.Pyroscope.ApplicationName,
				ServerAddress:     cfg.Pyroscope.ServerAddress,
				BasicAuthUser:     cfg.Pyroscope.BasicAuthUser,
				BasicAuthPassword: cfg.Pyroscope.BasicAuthPassword,
				Tags:              map[string]string{"mode": string(cfg.Deployment.Mode)},
				ProfileTypes: []pyroscope.ProfileType{
					pyroscope.ProfileCPU,
					pyroscope.ProfileAllocObjects,
					pyroscope.ProfileAllocSpace,
					pyroscope.ProfileInuseObjects,
					pyroscope.ProfileInuseSpace,
				},
			})
			if err != nil {
				// profiling is best effort
				log.Warnw("failed to start pyroscope profiler", "error", err)
				return nil
			}
			profiler = p
			log.Infow("pyroscope profiler started", "server_address", cfg.Pyroscope.ServerAddress)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if profiler == nil {
				return nil
			}
			return profiler.Stop()
		},
	})
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, router *gin.Engine, log *logger.Logger, sentrySvc *sentry.Service) {
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting http server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("http server stopped", "error", err)
					sentrySvc.CaptureException(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down http server")
			sentrySvc.Flush(2 * time.Second)
			return srv.Shutdown(ctx)
		},
	})
}

func runServe(ctx context.Context, cfg *config.Configuration) error {
	stopTimeout := cfg.Server.ShutdownTimeout
	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}

	app := fx.New(
		coreModule(cfg),
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startProfiler, startServer),
		fx.StopTimeout(stopTimeout),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return app.Stop(stopCtx)
}

// withAnalyticsService runs fn against a fully wired service and tears the
// dependencies down afterwards.
func withAnalyticsService(ctx context.Context, cfg *config.Configuration, fn func(context.Context, service.AnalyticsService) error) error {
	var analyticsService service.AnalyticsService
	app := fx.New(
		coreModule(cfg),
		fx.Populate(&analyticsService),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx, analyticsService)
}
