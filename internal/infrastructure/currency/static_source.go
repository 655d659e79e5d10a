// Package currency provides RateSource implementations backed by
// configuration and Redis caching.
package currency

import (
	"context"
	"strings"

	domaincurrency "github.com/GranDen-Corp/ls-erp-sub002/internal/domain/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// StaticRateSource serves exchange rates from the configured rate table.
// Unknown codes are a hard error; no 1:1 fallback is ever applied.
type StaticRateSource struct {
	rates map[valueobject.Currency]decimal.Decimal
}

// NewStaticRateSource builds a rate source from the currency configuration
func NewStaticRateSource(cfg config.CurrencyConfig) *StaticRateSource {
	rates := make(map[valueobject.Currency]decimal.Decimal, len(cfg.Rates))
	for code, rate := range cfg.Rates {
		rates[valueobject.Currency(strings.ToUpper(code))] = decimal.NewFromFloat(rate)
	}
	return &StaticRateSource{rates: rates}
}

// RateToReference returns the configured rate for the given currency code
func (s *StaticRateSource) RateToReference(_ context.Context, code valueobject.Currency) (decimal.Decimal, error) {
	rate, ok := s.rates[code]
	if !ok {
		return decimal.Zero, domaincurrency.NewUnknownCurrencyError(code)
	}
	return rate, nil
}

// Ensure StaticRateSource implements RateSource
var _ domaincurrency.RateSource = (*StaticRateSource)(nil)
