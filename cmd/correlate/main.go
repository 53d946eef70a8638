package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advait/custlink/internal/config"
	"github.com/advait/custlink/internal/domain"
	"github.com/advait/custlink/internal/generator"
	"github.com/advait/custlink/internal/logging"
	"github.com/advait/custlink/internal/service"
	"github.com/advait/custlink/internal/sources"
)

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./data", "Directory containing the generated dataset JSON files")
		query      = flag.String("query", "", "Search query to run against the dataset; empty correlates the full dataset")
		asJSON     = flag.Bool("json", false, "Write results as JSON instead of a text report")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "correlate")

	dataset, err := generator.LoadDataset(*datasetDir)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "dir", *datasetDir)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	correlator := service.NewCorrelator(service.Thresholds{
		NameLink:      cfg.Matching.NameLinkThreshold,
		NameEqual:     cfg.Matching.NameEqualThreshold,
		NameUnrelated: cfg.Matching.NameUnrelatedThreshold,
	})

	start := time.Now()
	var (
		views   []domain.CorrelatedCustomer
		summary domain.SearchSummary
	)
	if *query != "" {
		crm := sources.NewMemoryCRMClient(dataset.Companies, dataset.Contacts)
		payments := sources.NewMemoryPaymentsClient(dataset.Customers, dataset.Transfers)
		svc := service.NewSearchService(crm, payments, correlator)

		result, err := svc.Search(ctx, *query)
		if err != nil {
			logger.Error("search failed", "error", err, "query", *query)
			os.Exit(1)
		}
		logger.Info("query interpreted", "query", result.Query, "kind", string(result.Kind))
		views = result.Views
		summary = result.Summary
	} else {
		views = correlator.Correlate(dataset.Companies, dataset.Contacts, dataset.Customers, dataset.Transfers)
		summary = domain.Summarize(views)
	}

	if *asJSON {
		report := struct {
			Summary domain.SearchSummary        `json:"summary"`
			Results []domain.CorrelatedCustomer `json:"results"`
		}{Summary: summary, Results: views}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logger.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		return
	}

	printReport(views, summary)
	logger.Info("correlation complete", "duration", time.Since(start).String(), "results", len(views))
}

func printReport(views []domain.CorrelatedCustomer, summary domain.SearchSummary) {
	fmt.Printf("%d results: %d linked, %d CRM-only, %d payments-only, %d inconsistencies\n\n",
		summary.TotalResults, summary.LinkedAccounts, summary.UnlinkedFromCRM,
		summary.UnlinkedFromPayments, summary.InconsistencyCount)

	for _, view := range views {
		fmt.Printf("%-14s %s\n", statusLabel(view), viewName(view))
		for _, item := range view.Result.Inconsistencies {
			fmt.Printf("    [%s] %s: %s\n", item.Severity, item.Field, item.Message)
		}
	}
}

func statusLabel(view domain.CorrelatedCustomer) string {
	if view.Result.Linked {
		return fmt.Sprintf("linked(%d)", view.Result.Confidence)
	}
	if view.Customer != nil {
		return "payments-only"
	}
	return "crm-only"
}

func viewName(view domain.CorrelatedCustomer) string {
	if view.Company != nil {
		return view.Company.Name
	}
	if view.Customer != nil {
		if view.Customer.BusinessName != "" {
			return view.Customer.BusinessName
		}
		return view.Customer.FirstName + " " + view.Customer.LastName
	}
	if len(view.Contacts) > 0 {
		contact := view.Contacts[0]
		return contact.FirstName + " " + contact.LastName
	}
	return "(empty)"
}
