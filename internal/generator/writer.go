package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	companiesFile = "companies.json"
	contactsFile  = "contacts.json"
	customersFile = "customers.json"
	transfersFile = "transfers.json"
)

// WriteDataset persists the dataset as one JSON file per record type.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := map[string]any{
		companiesFile: dataset.Companies,
		contactsFile:  dataset.Contacts,
		customersFile: dataset.Customers,
		transfersFile: dataset.Transfers,
	}
	for name, payload := range files {
		if err := writeJSON(filepath.Join(dir, name), payload); err != nil {
			return err
		}
	}
	return nil
}

// LoadDataset reads a dataset previously produced by WriteDataset.
func LoadDataset(dir string) (Dataset, error) {
	var dataset Dataset
	if err := readJSON(filepath.Join(dir, companiesFile), &dataset.Companies); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, contactsFile), &dataset.Contacts); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, customersFile), &dataset.Customers); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, transfersFile), &dataset.Transfers); err != nil {
		return Dataset{}, err
	}
	return dataset, nil
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
