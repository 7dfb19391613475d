package bankcode_test

import (
	"context"
	"testing"

	"kazini-payroll/internal/bankcode"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	rows     []bankcode.BankCode
	queried  []string
	upserted []bankcode.BankCode
}

func (f *fakeRepo) FindActive(ctx context.Context) ([]bankcode.BankCode, error) {
	return f.rows, nil
}

func (f *fakeRepo) FindByCodes(ctx context.Context, codes []string) ([]bankcode.BankCode, error) {
	f.queried = codes
	var out []bankcode.BankCode
	for _, r := range f.rows {
		for _, c := range codes {
			if r.Code == c {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, codes []bankcode.BankCode) error {
	f.upserted = codes
	return nil
}

func TestBankCodeService_Lookup(t *testing.T) {
	repo := &fakeRepo{rows: []bankcode.BankCode{
		{Code: "01", Name: "KCB Bank", AccountPattern: `^[0-9]{10}$`, IsActive: true},
		{Code: "68", Name: "Equity Bank", AccountPattern: `^[0-9]{13}$`, IsActive: true},
	}}
	svc := bankcode.NewService(repo)

	banks, err := svc.Lookup(context.Background(), []string{"68", "01", "68", "99", ""})

	assert.NoError(t, err)
	assert.Equal(t, []string{"01", "68", "99"}, repo.queried)
	assert.Len(t, banks, 2)
	assert.True(t, banks["68"].AccountValid("0123456789012"))
	assert.False(t, banks["68"].AccountValid("0123456789"))
	assert.True(t, banks["01"].AccountValid("0123456789"))
	_, ok := banks["99"]
	assert.False(t, ok)
}

func TestBankCodeService_Lookup_BadPattern(t *testing.T) {
	svc := bankcode.NewService(&fakeRepo{rows: []bankcode.BankCode{{Code: "01", AccountPattern: "("}}})

	_, err := svc.Lookup(context.Background(), []string{"01"})

	assert.Error(t, err)
}

func TestBankCodeService_Seed(t *testing.T) {
	repo := &fakeRepo{}
	svc := bankcode.NewService(repo)

	err := svc.Seed(context.Background(), []bankcode.SeedBankCode{{Code: "11", Name: "Co-operative Bank", AccountPattern: `^[0-9]{14}$`}})

	assert.NoError(t, err)
	assert.Len(t, repo.upserted, 1)
	assert.True(t, repo.upserted[0].IsActive)

	assert.Error(t, svc.Seed(context.Background(), []bankcode.SeedBankCode{{Code: "12", AccountPattern: "[a-"}}))
}
