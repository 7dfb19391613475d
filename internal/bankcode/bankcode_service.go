package bankcode

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// Bank is a resolved bank code with its compiled account pattern.
type Bank struct {
	Code    string
	Name    string
	pattern *regexp.Regexp
}

// NewBank compiles the account pattern of one bank.
func NewBank(code, name, pattern string) (Bank, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Bank{}, fmt.Errorf("bank %s: invalid account pattern: %w", code, err)
	}
	return Bank{Code: code, Name: name, pattern: re}, nil
}

// AccountValid reports whether account matches the bank's account format.
func (b Bank) AccountValid(account string) bool {
	return b.pattern == nil || b.pattern.MatchString(account)
}

//go:generate mockgen -source=bankcode_service.go -destination=mock/bankcode_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]BankCodeResponse, error)
	Lookup(ctx context.Context, codes []string) (map[string]Bank, error)
	Seed(ctx context.Context, codes []SeedBankCode) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("bankcode.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("bankcode.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context) ([]BankCodeResponse, error) {
	codes, err := s.repo.FindActive(ctx)
	if err != nil {
		s.logger.Error("list bank codes failed", zap.Error(err))
		return nil, err
	}
	out := make([]BankCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, BankCodeResponse{Code: c.Code, Name: c.Name, AccountPattern: c.AccountPattern})
	}
	return out, nil
}

// Lookup resolves the active banks among codes. Unknown or inactive codes are
// absent from the result.
func (s *service) Lookup(ctx context.Context, codes []string) (map[string]Bank, error) {
	unique := dedupe(codes)
	rows, err := s.repo.FindByCodes(ctx, unique)
	if err != nil {
		s.logger.Error("lookup bank codes failed", zap.Error(err))
		return nil, err
	}

	out := make(map[string]Bank, len(rows))
	for _, row := range rows {
		bank, err := NewBank(row.Code, row.Name, row.AccountPattern)
		if err != nil {
			s.logger.Error("bank account pattern does not compile",
				zap.String("bank_code", row.Code),
				zap.Error(err),
			)
			return nil, err
		}
		out[row.Code] = bank
	}
	return out, nil
}

func (s *service) Seed(ctx context.Context, codes []SeedBankCode) error {
	rows := make([]BankCode, 0, len(codes))
	for _, c := range codes {
		if _, err := NewBank(c.Code, c.Name, c.AccountPattern); err != nil {
			return err
		}
		rows = append(rows, BankCode{Code: c.Code, Name: c.Name, AccountPattern: c.AccountPattern, IsActive: true})
	}
	if err := s.repo.Upsert(ctx, rows); err != nil {
		return err
	}
	s.logger.Info("bank codes seeded", zap.Int("count", len(rows)))
	return nil
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

