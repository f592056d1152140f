package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/mutual-circle/internal/api"
	"github.com/d60-Lab/mutual-circle/internal/service"
	"github.com/d60-Lab/mutual-circle/internal/throttle"
	"github.com/d60-Lab/mutual-circle/pkg/auth"
	"github.com/d60-Lab/mutual-circle/pkg/database"
	"github.com/d60-Lab/mutual-circle/pkg/logger"
	"github.com/d60-Lab/mutual-circle/pkg/monitoring"
	"github.com/d60-Lab/mutual-circle/pkg/tracing"
)

var (
	servePort string
	noSwagger bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Long: `启动 HTTP 服务。启动前会自动同步表结构。

Examples:
  circle serve
  circle serve --port 8080
  CIRCLE_REDIS_ADDR=localhost:6379 circle serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "监听端口，覆盖 server.port")
	serveCmd.Flags().BoolVar(&noSwagger, "no-swagger", false, "不挂载 /swagger")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	gin.SetMode(cfg.Server.Mode)

	sentryOn, err := monitoring.InitSentry(cfg.Sentry)
	if err != nil {
		return err
	}
	if sentryOn {
		defer monitoring.Flush()
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expire, cfg.JWT.Issuer)

	var userOpts []service.UserOption
	if cfg.Redis.Addr != "" {
		rdb, err := throttle.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		userOpts = append(userOpts, service.WithLoginLimiter(
			throttle.NewRedisLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.LockWindow)))
		logger.Info("login throttling enabled", zap.String("redis", cfg.Redis.Addr))
	}

	h := api.NewHandler(db, tokens, userOpts...)
	router := api.NewRouter(h, tokens, cfg.Tracing.ServiceName, api.Options{
		Sentry:    sentryOn,
		Tracing:   cfg.Tracing.Enabled,
		Swagger:   !noSwagger && cfg.Server.Mode != gin.ReleaseMode,
		Gzip:      true,
		RateLimit: cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}
