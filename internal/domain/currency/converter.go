// Package currency defines the conversion oracle the reconciliation
// validator depends on. Implementations live in infrastructure.
package currency

import (
	"context"
	"fmt"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Converter converts an amount between two currencies.
// Implementations must be deterministic for a fixed rate table: the same
// inputs always produce the same output. An unrecognized currency code is a
// hard error, never a silent 1:1 fallback.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error)
}

// RateSource provides the exchange rate from one currency to one unit of the
// reference currency (USD). Converter implementations are built on top of it.
type RateSource interface {
	// RateToReference returns how many reference-currency units one unit of
	// code is worth.
	RateToReference(ctx context.Context, code valueobject.Currency) (decimal.Decimal, error)
}

// NewUnknownCurrencyError builds the domain error for an unrecognized code
func NewUnknownCurrencyError(code valueobject.Currency) *shared.DomainError {
	return shared.NewDomainError(shared.ErrUnknownCurrency.Code,
		fmt.Sprintf("Currency code %q is not recognized", string(code)))
}

// RateConverter is a Converter backed by a RateSource. Conversion goes
// through the reference currency: amount * rate(from) / rate(to).
type RateConverter struct {
	source RateSource
}

// NewRateConverter creates a converter on top of the given rate source
func NewRateConverter(source RateSource) *RateConverter {
	return &RateConverter{source: source}
}

// Convert converts amount from one currency to another
func (c *RateConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, err := c.source.RateToReference(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.source.RateToReference(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	if toRate.IsZero() {
		return decimal.Zero, shared.NewDomainError(shared.ErrUnknownCurrency.Code,
			fmt.Sprintf("Currency %q has a zero reference rate", string(to)))
	}

	return amount.Mul(fromRate).Div(toRate), nil
}
