package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"growthmind/internal/config"
	"growthmind/internal/email"
	apihttp "growthmind/internal/http"
	"growthmind/internal/llm"
	"growthmind/internal/metrics"
	"growthmind/internal/repository"
	"growthmind/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	llmClient, closeLLM, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		logger.Fatal("llm client init", zap.Error(err))
	}
	defer closeLLM()
	if cfg.LLMAPIKey == "" {
		logger.Warn("llm api key not configured, every audit will use the fallback report")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var notifier email.LeadNotifier = email.NewLogNotifier(logger)
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.LeadNotifyTo, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp notifier init failed", zap.Error(err))
		} else {
			notifier = sender
		}
	}

	sessionRepo := repository.NewMemorySessionRepository(cfg.SessionTTL)
	auditSvc := service.NewAuditService(llmClient, m, logger)
	funnelSvc := service.NewFunnelService(sessionRepo, auditSvc, notifier, m, logger, cfg.AnalyzingMinDuration)

	funnelHandler := apihttp.NewFunnelHandler(logger, funnelSvc)
	router := apihttp.NewRouter(logger, funnelHandler, m.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("llm_provider", cfg.LLMProvider))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}

	// Los analisis en curso terminan antes de salir para no perder leads.
	funnelSvc.Wait()
	logger.Info("server stopped")
}
