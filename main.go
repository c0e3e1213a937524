// Command eventhub serves the event hub API.
//
// Run without arguments to start the HTTP server, or with "migrate" to create the
// database schema and exit. The environment is chosen by the ENVIRONMENT variable.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/code19m/errx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/api"
	"github.com/rise-and-shine/eventhub/cfgloader"
	"github.com/rise-and-shine/eventhub/entity"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/filestore/localfs"
	"github.com/rise-and-shine/eventhub/filestore/miniowr"
	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/http/server/middleware"
	"github.com/rise-and-shine/eventhub/imagefs"
	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/meta"
	"github.com/rise-and-shine/eventhub/pg"
	"github.com/rise-and-shine/eventhub/token"
	"github.com/rise-and-shine/eventhub/tracing"
	"github.com/rise-and-shine/eventhub/ucdef"
)

const shutdownTimeout = 15 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // build metadata
var version = "dev"

func main() {
	cfg := cfgloader.MustLoad[Config]()

	meta.SetServiceInfo(cfg.ServiceName, version)
	logger.SetGlobal(cfg.Logger)
	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		err = migrate(ctx, cfg)
	} else {
		err = serve(ctx, cfg, log)
	}
	if err != nil {
		log.Fatalx(err)
	}
	_ = logger.Sync()
}

func serve(ctx context.Context, cfg Config, log logger.Logger) error {
	shutdownTracer, err := tracing.InitGlobalTracer(ctx, cfg.Tracing)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() {
		if err := shutdownTracer(context.WithoutCancel(ctx)); err != nil {
			log.Warnx(err)
		}
	}()

	db, err := pg.NewBunDB(ctx, cfg.Postgres)
	if err != nil {
		return errx.Wrap(err)
	}
	defer db.Close()

	store, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		return errx.Wrap(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stopMetrics := serveMetrics(cfg.Metrics, reg, log)
	defer stopMetrics(context.WithoutCancel(ctx))

	assets, err := imagefs.NewService(store, cfg.Assets, imagefs.WithMetrics(imagefs.NewMetrics(reg)))
	if err != nil {
		return errx.Wrap(err)
	}

	jwtMaker, err := token.NewJWTMaker(cfg.Auth.Secret,
		token.WithIssuer(cfg.Auth.Issuer),
		token.WithLeeway(cfg.Auth.Leeway),
	)
	if err != nil {
		return errx.Wrap(err)
	}

	srv := server.NewHTTPServer(cfg.Server, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.Server.HandleTimeout),
		middleware.NewMetaInjectMW(),
		middleware.NewMetricsMW(reg),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(cfg.Server.HideErrorDetails),
		middleware.NewAuthMW(jwtMaker),
	})
	srv.RegisterRouter(api.New(entity.NewPgRepos(db), assets, log).Register)

	log.Infof("listening on %s", cfg.Server.Address())
	return errx.Wrap(srv.ListenAndServe(ctx))
}

// serveMetrics exposes reg on its own listener when enabled and returns a shutdown function.
func serveMetrics(cfg MetricsConfig, reg *prometheus.Registry, log logger.Logger) func(context.Context) {
	if !cfg.Enabled {
		return func(context.Context) {}
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: cfg.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Infof("metrics listening on %s%s", cfg.Address, cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorx(errx.Wrap(err))
		}
	}()

	return func(ctx context.Context) {
		stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			log.Warnx(errx.Wrap(err))
		}
	}
}

func newFileStore(ctx context.Context, cfg StorageConfig) (filestore.FileStore, error) {
	switch cfg.Backend {
	case backendLocal:
		store, err := localfs.New(cfg.Local)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return store, nil

	case backendMinio:
		client, err := miniowr.New(*cfg.Minio)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		if err = client.EnsureBucket(ctx); err != nil {
			return nil, errx.Wrap(err)
		}
		return client, nil

	default:
		return nil, errx.New("unknown storage backend: " + cfg.Backend)
	}
}

// createSchema creates the tables of every entity.
type createSchema struct {
	db bun.IDB
}

var _ ucdef.ManualCommand[struct{}] = createSchema{}

func (createSchema) OperationID() string { return "create_schema" }

func (c createSchema) Execute(ctx context.Context, _ struct{}) error {
	return entity.CreateSchema(ctx, c.db)
}

func migrate(ctx context.Context, cfg Config) error {
	db, err := pg.NewBunDB(ctx, cfg.Postgres)
	if err != nil {
		return errx.Wrap(err)
	}
	defer db.Close()

	cmd := createSchema{db: db}
	logger.Named("main").With("operation_id", cmd.OperationID()).Info("running")
	return errx.Wrap(cmd.Execute(ctx, struct{}{}))
}
