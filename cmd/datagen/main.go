package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/advait/custlink/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		companies     = flag.Int("companies", cfg.NumCompanies, "number of CRM companies to generate")
		contacts      = flag.Int("contacts", cfg.NumContacts, "number of CRM contacts to generate")
		customers     = flag.Int("customers", cfg.NumCustomers, "number of payments customers to generate")
		transfers     = flag.Int("transfers", cfg.NumTransfers, "number of transfers to generate")
		externalIDs   = flag.Float64("external-id-chance", cfg.ExternalIDChance, "probability a paired company records the payments customer id")
		emailOverlap  = flag.Float64("email-overlap-chance", cfg.EmailOverlapChance, "probability a contact shares a payments customer email")
		nameDrift     = flag.Float64("name-drift-chance", cfg.NameDriftChance, "probability a paired business name drifts between platforms")
		suspendChance = flag.Float64("suspended-chance", cfg.SuspendedChance, "probability a customer is suspended")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write the dataset JSON files")
		writeStdout   = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumCompanies:       *companies,
		NumContacts:        *contacts,
		NumCustomers:       *customers,
		NumTransfers:       *transfers,
		ExternalIDChance:   clampProbability(*externalIDs),
		EmailOverlapChance: clampProbability(*emailOverlap),
		NameDriftChance:    clampProbability(*nameDrift),
		SuspendedChance:    clampProbability(*suspendChance),
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d companies, %d contacts, %d customers and %d transfers into %s\n",
		len(dataset.Companies), len(dataset.Contacts), len(dataset.Customers), len(dataset.Transfers), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
