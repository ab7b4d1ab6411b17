package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpadapter "taskkeeper/internal/adapter/http"
	"taskkeeper/internal/adapter/http/handlers"
	httpmiddleware "taskkeeper/internal/adapter/http/middleware"
	"taskkeeper/internal/adapter/storage"
	appservice "taskkeeper/internal/app/service"
	"taskkeeper/internal/config"
	"taskkeeper/pkg/translator"
)

func main() {
	logger, err := initLogger(config.AppEnv())
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	blobs, err := openBlobStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to open blob store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	taskStore := storage.NewTaskStore(blobs, cfg.StoreKey)
	taskService := appservice.NewTaskService(taskStore, appservice.WithSaveTimeout(cfg.SaveTimeout))
	taskService.Initialize(context.Background())

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
	}
	healthHandler := handlers.NewHealthHandler(taskStore, taskService, cfg.StoreDriver)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store_driver", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	httpStopped := make(chan struct{})
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				defer close(httpStopped)
				return srv.Shutdown(ctx)
			},
			// Pending writes are drained once no request can queue more.
			"task-store": func(ctx context.Context) error {
				select {
				case <-httpStopped:
				case <-ctx.Done():
				}
				if err := taskService.Close(ctx); err != nil {
					logger.Warn("pending task writes were not drained", zap.Error(err))
				}
				return blobs.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// initLogger installs the global logger. It runs before LoadConfig so that
// configuration warnings are not sent to the no-op logger.
func initLogger(appEnv string) (*zap.Logger, error) {
	logger, err := newLogger(appEnv)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == config.EnvDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
