package trade

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReconciliationResult is the per-order-item verdict of a reconciliation
// run. It is derived data, never persisted. When no selected procurement
// item matches the product code, all three validity flags are false and
// margin/buffer are zero.
type ReconciliationResult struct {
	ProductCode          string                `json:"product_code"`
	OrderQuantity        decimal.Decimal       `json:"order_quantity"`
	PurchaseQuantity     decimal.Decimal       `json:"purchase_quantity"`
	OrderPrice           decimal.Decimal       `json:"order_price"`
	OrderCurrency        valueobject.Currency  `json:"order_currency"`
	PurchasePrice        decimal.Decimal       `json:"purchase_price"`
	PurchaseCurrency     valueobject.Currency  `json:"purchase_currency,omitempty"`
	PriceValid           bool                  `json:"price_valid"`
	QuantityValid        bool                  `json:"quantity_valid"`
	DateValid            bool                  `json:"date_valid"`
	PriceMarginPercent   decimal.Decimal       `json:"price_margin_percent"`
	DateBufferDays       int                   `json:"date_buffer_days"`
	OrderDeliveryDate    *time.Time            `json:"order_delivery_date,omitempty"`
	PurchaseDeliveryDate *time.Time            `json:"purchase_delivery_date,omitempty"`
	// CurrencyFailure carries the oracle failure for this row when a rate
	// lookup failed. The row is then reported price-invalid instead of
	// aborting the whole run; a wrong rate is never substituted.
	CurrencyFailure string `json:"currency_failure,omitempty"`
}

// ReconciliationSummary aggregates a reconciliation run
type ReconciliationSummary struct {
	TotalItems                int             `json:"total_items"`
	ValidPriceCount           int             `json:"valid_price_count"`
	ValidQuantityCount        int             `json:"valid_quantity_count"`
	ValidDateCount            int             `json:"valid_date_count"`
	AveragePriceMarginPercent decimal.Decimal `json:"average_price_margin_percent"`
	AverageDateBufferDays     decimal.Decimal `json:"average_date_buffer_days"`
	IsAllValid                bool            `json:"is_all_valid"`
}

// Validator reconciles an order's line items against the procurement items
// purchased for it. It is stateless and side-effect free: the same inputs
// and the same oracle behavior always produce identical results, so callers
// simply recompute on every input change.
//
// Prices are compared in the reference currency (USD). Procurement prices
// are aggregated in native currency before conversion, which assumes all
// matched procurement items for one product share a single currency; mixed
// currencies per product are not supported.
type Validator struct {
	converter currency.Converter
}

// NewValidator creates a reconciliation validator backed by the given
// currency conversion oracle.
func NewValidator(converter currency.Converter) *Validator {
	return &Validator{converter: converter}
}

// Validate produces one ReconciliationResult per order item plus a summary.
//
// Business mismatches are reported as false flags, never as errors. A
// malformed record (order item without a product code, or a selected
// procurement item with non-positive quantity) yields a MALFORMED_INPUT
// error naming every offending record, while all well-formed records are
// still processed and returned.
func (v *Validator) Validate(ctx context.Context, orderItems []OrderLineItem, procurementItems []ProcurementLineItem, orderCurrency valueobject.Currency) ([]ReconciliationResult, ReconciliationSummary, error) {
	var malformed []string

	// Selected procurement items, grouped by product code. Malformed items
	// are excluded so they cannot poison well-formed rows.
	matched := make(map[string][]ProcurementLineItem)
	for _, p := range procurementItems {
		if !p.Selected {
			continue
		}
		if p.Quantity.LessThanOrEqual(decimal.Zero) {
			malformed = append(malformed, fmt.Sprintf("selected procurement item %s has non-positive quantity %s", p.ID, p.Quantity))
			continue
		}
		matched[p.ProductCode] = append(matched[p.ProductCode], p)
	}

	results := make([]ReconciliationResult, 0, len(orderItems))
	for idx := range orderItems {
		item := &orderItems[idx]
		if item.ProductCode == "" {
			malformed = append(malformed, fmt.Sprintf("order item %s has no product code", item.ID))
			continue
		}
		results = append(results, v.validateItem(ctx, item, matched[item.ProductCode], orderCurrency))
	}

	summary := summarize(results)

	if len(malformed) > 0 {
		return results, summary, shared.NewDomainError("MALFORMED_INPUT",
			"Malformed reconciliation input: "+strings.Join(malformed, "; "))
	}
	return results, summary, nil
}

// validateItem reconciles one order item against its matched procurement items
func (v *Validator) validateItem(ctx context.Context, item *OrderLineItem, matches []ProcurementLineItem, orderCurrency valueobject.Currency) ReconciliationResult {
	result := ReconciliationResult{
		ProductCode:        item.ProductCode,
		OrderQuantity:      item.Quantity,
		PurchaseQuantity:   decimal.Zero,
		OrderPrice:         item.UnitPrice,
		OrderCurrency:      item.Currency,
		PurchasePrice:      decimal.Zero,
		PriceMarginPercent: decimal.Zero,
	}
	if result.OrderCurrency.IsZeroValue() {
		result.OrderCurrency = orderCurrency
	}

	if len(matches) == 0 {
		return result
	}

	// Aggregate quantity and the quantity-weighted average price in native
	// currency. Quantities are positive by construction, so the divisor
	// cannot be zero once matches is non-empty.
	weightedSum := decimal.Zero
	for _, p := range matches {
		result.PurchaseQuantity = result.PurchaseQuantity.Add(p.Quantity)
		weightedSum = weightedSum.Add(p.Quantity.Mul(p.UnitPrice))
	}
	result.PurchasePrice = weightedSum.Div(result.PurchaseQuantity)
	result.PurchaseCurrency = matches[0].Currency
	if result.PurchaseCurrency.IsZeroValue() {
		result.PurchaseCurrency = valueobject.ReferenceCurrency
	}

	result.QuantityValid = item.Quantity.Equal(result.PurchaseQuantity)
	v.validateDates(item, matches, &result)
	v.validatePrice(ctx, &result)

	return result
}

// validatePrice converts both prices to the reference currency and computes
// the margin. A conversion failure marks the row price-invalid and records
// the failure instead of guessing a rate.
func (v *Validator) validatePrice(ctx context.Context, result *ReconciliationResult) {
	orderPriceRef, err := v.converter.Convert(ctx, result.OrderPrice, result.OrderCurrency, valueobject.ReferenceCurrency)
	if err != nil {
		result.CurrencyFailure = err.Error()
		return
	}
	purchasePriceRef, err := v.converter.Convert(ctx, result.PurchasePrice, result.PurchaseCurrency, valueobject.ReferenceCurrency)
	if err != nil {
		result.CurrencyFailure = err.Error()
		return
	}

	// Strictly greater: a zero-margin order is not valid.
	if orderPriceRef.GreaterThan(purchasePriceRef) {
		result.PriceValid = true
		result.PriceMarginPercent = orderPriceRef.Sub(purchasePriceRef).
			Div(orderPriceRef).
			Mul(decimal.NewFromInt(100))
	}
}

// validateDates derives the date axis: the latest planned ship date among
// the order item's batches vs the latest expected delivery date among the
// matched procurement items. An absent date on either side is valid.
func (v *Validator) validateDates(item *OrderLineItem, matches []ProcurementLineItem, result *ReconciliationResult) {
	result.OrderDeliveryDate = item.LatestPlannedShipDate()

	for idx := range matches {
		d := matches[idx].ExpectedDeliveryDate
		if d == nil {
			continue
		}
		if result.PurchaseDeliveryDate == nil || d.After(*result.PurchaseDeliveryDate) {
			result.PurchaseDeliveryDate = d
		}
	}

	if result.OrderDeliveryDate == nil || result.PurchaseDeliveryDate == nil {
		result.DateValid = true
		return
	}

	result.DateValid = !result.OrderDeliveryDate.Before(*result.PurchaseDeliveryDate)
	result.DateBufferDays = int(math.Floor(result.OrderDeliveryDate.Sub(*result.PurchaseDeliveryDate).Hours() / 24))
}

// summarize aggregates the per-item results
func summarize(results []ReconciliationResult) ReconciliationSummary {
	summary := ReconciliationSummary{
		TotalItems:                len(results),
		AveragePriceMarginPercent: decimal.Zero,
		AverageDateBufferDays:     decimal.Zero,
	}

	marginSum := decimal.Zero
	bufferSum := decimal.Zero
	bufferCount := 0
	for _, r := range results {
		if r.PriceValid {
			summary.ValidPriceCount++
			marginSum = marginSum.Add(r.PriceMarginPercent)
		}
		if r.QuantityValid {
			summary.ValidQuantityCount++
		}
		if r.DateValid {
			summary.ValidDateCount++
			if r.DateBufferDays > 0 {
				bufferSum = bufferSum.Add(decimal.NewFromInt(int64(r.DateBufferDays)))
				bufferCount++
			}
		}
	}

	if summary.ValidPriceCount > 0 {
		summary.AveragePriceMarginPercent = marginSum.Div(decimal.NewFromInt(int64(summary.ValidPriceCount)))
	}
	if bufferCount > 0 {
		summary.AverageDateBufferDays = bufferSum.Div(decimal.NewFromInt(int64(bufferCount)))
	}
	summary.IsAllValid = summary.ValidPriceCount == summary.TotalItems &&
		summary.ValidQuantityCount == summary.TotalItems &&
		summary.ValidDateCount == summary.TotalItems

	return summary
}
