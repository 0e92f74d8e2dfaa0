package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/ai"
	"github.com/xxxsen/ernexus/internal/config"
	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/embedcache"
	"github.com/xxxsen/ernexus/internal/filestore"
	"github.com/xxxsen/ernexus/internal/handler"
	"github.com/xxxsen/ernexus/internal/index"
	"github.com/xxxsen/ernexus/internal/job"
	"github.com/xxxsen/ernexus/internal/middleware"
	"github.com/xxxsen/ernexus/internal/retrieval"
	"github.com/xxxsen/ernexus/internal/schedule"
	"github.com/xxxsen/ernexus/internal/service"
	"github.com/xxxsen/ernexus/internal/vector"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ernexus",
		Short: "ernexus retrieval server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ernexus server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("artifact_store", cfg.ArtifactStore.Type),
		zap.String("vector_backend", cfg.Retrieval.Backend),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	store, err := filestore.New(cfg.ArtifactStore)
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}

	provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	generator := ai.NewGenerator(provider, cfg.AI.Model)
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(provider, cfg.AI.EmbedModel),
		cfg.AI.EmbedCacheSize,
		24*time.Hour,
	)
	manager := ai.NewManager(generator, embedder, ai.ManagerConfig{Timeout: cfg.AI.Timeout})

	driver, err := vector.New(cfg.Retrieval)
	if err != nil {
		return fmt.Errorf("init vector backend: %w", err)
	}
	defer driver.Close()

	idx := index.NewManager(embedder, driver)
	c := corpus.Load(ctx, store)
	if c.Empty() {
		logutil.GetLogger(ctx).Warn("corpus is empty, serving without retrieval context")
	} else if err := idx.Rebuild(ctx, c); err != nil {
		logutil.GetLogger(ctx).Error("initial index build failed, keyword fallback only", zap.Error(err))
	}

	retriever := retrieval.NewRetriever(idx, cfg.Retrieval.KInitial, cfg.Retrieval.KExpand)
	qaService := service.NewQAService(retriever, manager, service.QAConfig{
		MaxLine:     cfg.Answer.MaxLine,
		ContextLine: cfg.Answer.ContextLine,
		CaptionLine: cfg.Answer.CaptionLine,
		MaxRefs:     cfg.Answer.MaxRefs,
	})

	deps := handler.RouterDeps{
		QA: handler.NewQAHandler(qaService),
	}

	middlewares := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.CORS(cfg.CORSAllowlist),
		gzip.Gzip(gzip.DefaultCompression),
	}
	if cfg.RateLimitMS > 0 {
		middlewares = append(middlewares, middleware.RateLimit(time.Duration(cfg.RateLimitMS)*time.Millisecond))
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(middlewares...),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	if cfg.Retrieval.ReloadCron != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewCorpusReloadJob(store, idx), cfg.Retrieval.ReloadCron); err != nil {
			return fmt.Errorf("schedule corpus reload: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
