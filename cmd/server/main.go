package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/advait/custlink/internal/actions"
	"github.com/advait/custlink/internal/config"
	"github.com/advait/custlink/internal/generator"
	"github.com/advait/custlink/internal/logging"
	"github.com/advait/custlink/internal/server"
	"github.com/advait/custlink/internal/service"
	"github.com/advait/custlink/internal/sources"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	crmClient, paymentsClient, err := buildClients(logger, cfg)
	if err != nil {
		logger.Error("failed to create source clients", "error", err)
		os.Exit(1)
	}

	correlator := service.NewCorrelator(service.Thresholds{
		NameLink:      cfg.Matching.NameLinkThreshold,
		NameEqual:     cfg.Matching.NameEqualThreshold,
		NameUnrelated: cfg.Matching.NameUnrelatedThreshold,
	})
	searchService := service.NewSearchService(crmClient, paymentsClient, correlator)
	apiHandlers := server.NewAPIHandlers(logger, searchService, actions.Deriver{
		CRMBaseURL:      cfg.CRM.DashboardURL,
		PaymentsBaseURL: cfg.Payments.DashboardURL,
	})

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.SourcesHealthService{CRM: crmClient, Payments: paymentsClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildClients connects to the live platforms, or serves a generated fixture
// dataset from memory when SOURCES_FIXTURE_DIR is set.
func buildClients(logger *slog.Logger, cfg config.Config) (sources.CRMClient, sources.PaymentsClient, error) {
	if cfg.FixtureDir != "" {
		dataset, err := generator.LoadDataset(cfg.FixtureDir)
		if err != nil {
			return nil, nil, fmt.Errorf("load fixtures: %w", err)
		}
		logger.Info("serving fixture dataset",
			"dir", cfg.FixtureDir,
			"companies", len(dataset.Companies),
			"customers", len(dataset.Customers),
		)
		crm := sources.NewMemoryCRMClient(dataset.Companies, dataset.Contacts)
		payments := sources.NewMemoryPaymentsClient(dataset.Customers, dataset.Transfers)
		return crm, payments, nil
	}

	crm, err := sources.NewCRMClient(sources.Options{
		BaseURL:   cfg.CRM.BaseURL,
		Tokens:    sources.StaticTokenSource(cfg.CRM.Token),
		Timeout:   cfg.CRM.Timeout,
		PageLimit: cfg.CRM.PageLimit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("crm client: %w", err)
	}

	payments, err := sources.NewPaymentsClient(sources.Options{
		BaseURL:   cfg.Payments.BaseURL,
		Tokens:    sources.StaticTokenSource(cfg.Payments.Token),
		Timeout:   cfg.Payments.Timeout,
		PageLimit: cfg.Payments.PageLimit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("payments client: %w", err)
	}

	return crm, payments, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
