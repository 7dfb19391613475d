package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/seed"
	"kazini-payroll/internal/taxrate"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRates struct {
	got []taxrate.CreateTaxRateRequest
	err error
}

func (f *fakeRates) Seed(_ context.Context, sets []taxrate.CreateTaxRateRequest) (int, error) {
	f.got = sets
	return len(sets), f.err
}

type fakeBanks struct {
	got []bankcode.SeedBankCode
}

func (f *fakeBanks) Seed(_ context.Context, codes []bankcode.SeedBankCode) error {
	f.got = codes
	return nil
}

func TestDefault(t *testing.T) {
	f := seed.Default()

	assert.Len(t, f.TaxRates, 1)
	set := f.TaxRates[0]
	assert.Equal(t, 2024, set.TaxYear)
	assert.Len(t, set.Bands, 5)
	assert.Nil(t, set.Bands[4].MaxIncome)
	assert.Equal(t, int64(2400000), *set.Bands[0].MaxIncome)
	assert.Equal(t, 32.5, set.Bands[3].RatePercent)
	assert.Equal(t, "SHIF", set.Health.Kind)
	assert.Equal(t, int64(240000), set.PersonalRelief)
	assert.True(t, set.HousingLevyDeductible)

	codes := map[string]string{}
	for _, b := range f.BankCodes {
		codes[b.Code] = b.AccountPattern
	}
	assert.Equal(t, `^[0-9]{10}$`, codes["01"])
	assert.Equal(t, `^[0-9]{13}$`, codes["68"])
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses the built-in seed", func(t *testing.T) {
		f, err := seed.Load("")
		assert.NoError(t, err)
		assert.NotEmpty(t, f.BankCodes)
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		assert.NoError(t, os.WriteFile(path, []byte(`
bank_codes:
  - { code: "99", name: Test Bank, account_pattern: '^[0-9]{4}$' }
`), 0o600))

		f, err := seed.Load(path)
		assert.NoError(t, err)
		assert.Empty(t, f.TaxRates)
		assert.Equal(t, "Test Bank", f.BankCodes[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := seed.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := seed.Parse([]byte("tax_rates: {"))
		assert.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	f := seed.Default()

	t.Run("seeds both tables", func(t *testing.T) {
		rates, banks := &fakeRates{}, &fakeBanks{}
		assert.NoError(t, seed.Apply(context.Background(), f, rates, banks, zap.NewNop()))
		assert.Len(t, rates.got, 1)
		assert.Len(t, banks.got, len(f.BankCodes))
	})

	t.Run("rate failure stops before bank codes", func(t *testing.T) {
		rates, banks := &fakeRates{err: errors.New("db down")}, &fakeBanks{}
		err := seed.Apply(context.Background(), f, rates, banks, zap.NewNop())
		assert.ErrorContains(t, err, "seed tax rates")
		assert.Nil(t, banks.got)
	})
}
