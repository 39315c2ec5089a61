package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/cmd/server"
	"github.com/agent-mongo-exporter/pkg/config"
	"github.com/agent-mongo-exporter/pkg/exporter/mongodb"
	"github.com/agent-mongo-exporter/pkg/logger"
	"github.com/agent-mongo-exporter/pkg/metrics"
	"github.com/agent-mongo-exporter/pkg/registers"
	"github.com/agent-mongo-exporter/pkg/signal"
	"github.com/agent-mongo-exporter/pkg/util"
)

const (
	projectName     = "mongo-exporter"
	shutdownTimeout = 10 * time.Second
)

var defaultCfg = config.NewDefaultConfig()

// configLoadError 配置读取/校验失败，进程以 2 退出
type configLoadError struct {
	err error
}

func (e *configLoadError) Error() string { return e.err.Error() }
func (e *configLoadError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           projectName,
		Short:         "System metrics agent exporting one document per snapshot to MongoDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithCli(cmd)
			if err != nil {
				return &configLoadError{err: err}
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringP("config", "c", "configs/config.yaml", "配置文件路径")
	// 注册分组 flag
	initServerFlags(root)
	initMonitorFlags(root)
	initLogFlags(root)
	initMongoFlags(root)
	return root
}

// Execute 入口：错误统一输出到 stderr 并按 exitCode 退出
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode 配置不完整或无法连接 MongoDB 返回 2，其它启动失败返回 1
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var (
		loadErr    *configLoadError
		cfgErr     *mongodb.ConfigError
		connErr    *mongodb.ConnectionError
		missingErr *config.MissingKeysError
	)
	switch {
	case errors.As(err, &loadErr), errors.As(err, &cfgErr),
		errors.As(err, &connErr), errors.As(err, &missingErr):
		return 2
	default:
		return 1
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	// 初始化日志
	log, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	util.PrintBanner(os.Stdout, projectName, "ColorBlue", "export -> "+mongodb.RedactedURI(cfg.MongoDB))
	logger.Info("Log initialization successful", zap.String("path", cfg.Log.Path),
		zap.String("level", cfg.Log.Level), zap.String("format", cfg.Log.Format))

	exporter, err := mongodb.New(ctx, cfg.MongoDB, log)
	if err != nil {
		return err
	}

	const enableProcess = true
	registry := metrics.NewRegistry(enableProcess)
	agent := registers.InitAgent(&cfg.Monitor, exporter, metrics.NewPromRegistry(registry))
	if err := agent.Start(ctx); err != nil {
		_ = exporter.Close(ctx)
		return fmt.Errorf("start collector agent failed: %w", err)
	}

	httpServer := server.NewHTTPServer(cfg.Server, log, registry, exporter)
	if err := httpServer.Start(); err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = agent.Shutdown(closeCtx)
		_ = exporter.Close(closeCtx)
		return fmt.Errorf("start HTTP server failed: %w", err)
	}

	// 关闭顺序：HTTP服务 → 采集循环 → 数据库连接
	return signal.WaitForShutdown(ctx, log, shutdownTimeout, func(ctx context.Context) error {
		errs := []error{
			httpServer.Shutdown(),
			agent.Shutdown(ctx),
			exporter.Close(ctx),
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		logger.Info("all services shutdown successfully")
		return nil
	})
}
