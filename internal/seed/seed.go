// Package seed loads reference data that every deployment needs before the
// first payroll can run: the statutory rate sets and the bank-code table.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/taxrate"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed kenya.yaml
var defaultSeed []byte

type File struct {
	TaxRates  []taxrate.CreateTaxRateRequest `yaml:"tax_rates"`
	BankCodes []bankcode.SeedBankCode        `yaml:"bank_codes"`
}

// Load reads path, or the built-in Kenyan seed when path is empty.
func Load(path string) (File, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

func Default() File {
	f, err := Parse(defaultSeed)
	if err != nil {
		panic(err)
	}
	return f
}

type TaxRateSeeder interface {
	Seed(ctx context.Context, sets []taxrate.CreateTaxRateRequest) (int, error)
}

type BankCodeSeeder interface {
	Seed(ctx context.Context, codes []bankcode.SeedBankCode) error
}

// Apply is idempotent: rate sets already present for their tax year are
// skipped and bank codes are upserted.
func Apply(ctx context.Context, f File, rates TaxRateSeeder, banks BankCodeSeeder, logger *zap.Logger) error {
	created, err := rates.Seed(ctx, f.TaxRates)
	if err != nil {
		return fmt.Errorf("seed tax rates: %w", err)
	}
	if err := banks.Seed(ctx, f.BankCodes); err != nil {
		return fmt.Errorf("seed bank codes: %w", err)
	}
	logger.Info("reference data seeded",
		zap.Int("tax_rate_sets_created", created),
		zap.Int("bank_codes", len(f.BankCodes)),
	)
	return nil
}
