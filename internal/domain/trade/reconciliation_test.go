package trade

import (
	"context"
	"testing"
	"time"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRateSource is a fixed rate table for tests
type stubRateSource struct {
	rates map[valueobject.Currency]string
}

func (s *stubRateSource) RateToReference(_ context.Context, code valueobject.Currency) (decimal.Decimal, error) {
	r, ok := s.rates[code]
	if !ok {
		return decimal.Zero, currency.NewUnknownCurrencyError(code)
	}
	return decimal.NewFromString(r)
}

func newTestValidator() *Validator {
	source := &stubRateSource{rates: map[valueobject.Currency]string{
		valueobject.USD: "1",
		valueobject.TWD: "0.032",
		valueobject.EUR: "1.10",
	}}
	return NewValidator(currency.NewRateConverter(source))
}

func orderItem(productCode string, quantity int64, price string, cur valueobject.Currency) OrderLineItem {
	p, _ := decimal.NewFromString(price)
	return OrderLineItem{
		ID:          uuid.New(),
		ProductCode: productCode,
		ProductName: productCode,
		Quantity:    decimal.NewFromInt(quantity),
		UnitPrice:   p,
		Currency:    cur,
	}
}

func procItem(productCode string, quantity int64, price string, cur valueobject.Currency, delivery *time.Time, selected bool) ProcurementLineItem {
	p, _ := decimal.NewFromString(price)
	return ProcurementLineItem{
		ID:                   uuid.New(),
		ProductCode:          productCode,
		SupplierID:           uuid.New(),
		Quantity:             decimal.NewFromInt(quantity),
		UnitPrice:            p,
		Currency:             cur,
		ExpectedDeliveryDate: delivery,
		Selected:             selected,
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestValidator_NoMatchRow(t *testing.T) {
	v := newTestValidator()
	items := []OrderLineItem{orderItem("P1", 10, "5", valueobject.USD)}

	results, summary, err := v.Validate(context.Background(), items, nil, valueobject.USD)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.False(t, r.PriceValid)
	assert.False(t, r.QuantityValid)
	assert.False(t, r.DateValid)
	assert.True(t, r.PurchaseQuantity.IsZero())
	assert.True(t, r.PurchasePrice.IsZero())
	assert.True(t, r.PriceMarginPercent.IsZero())
	assert.Zero(t, r.DateBufferDays)

	assert.Equal(t, 1, summary.TotalItems)
	assert.False(t, summary.IsAllValid)
}

func TestValidator_UnselectedItemsIgnored(t *testing.T) {
	v := newTestValidator()
	items := []OrderLineItem{orderItem("P1", 10, "10", valueobject.USD)}
	procs := []ProcurementLineItem{
		procItem("P1", 10, "7", valueobject.USD, nil, false),
	}

	results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].PurchaseQuantity.IsZero())
	assert.False(t, results[0].PriceValid)
}

func TestValidator_QuantityMatching(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name       string
		quantities []int64
		valid      bool
	}{
		{"exact match across two items", []int64{60, 40}, true},
		{"under by one", []int64{60, 39}, false},
		{"over by one", []int64{60, 41}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []OrderLineItem{orderItem("P1", 100, "10", valueobject.USD)}
			var procs []ProcurementLineItem
			for _, q := range tt.quantities {
				procs = append(procs, procItem("P1", q, "7", valueobject.USD, nil, true))
			}

			results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.valid, results[0].QuantityValid)
		})
	}
}

func TestValidator_PriceMargin(t *testing.T) {
	v := newTestValidator()

	t.Run("positive margin", func(t *testing.T) {
		items := []OrderLineItem{orderItem("P1", 10, "10", valueobject.USD)}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.True(t, results[0].PriceValid)
		assert.Equal(t, "30", results[0].PriceMarginPercent.String())
	})

	t.Run("equal prices are not valid", func(t *testing.T) {
		items := []OrderLineItem{orderItem("P1", 10, "10", valueobject.USD)}
		procs := []ProcurementLineItem{procItem("P1", 10, "10", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.False(t, results[0].PriceValid)
		assert.True(t, results[0].PriceMarginPercent.IsZero())
	})

	t.Run("weighted average purchase price", func(t *testing.T) {
		// (60*6 + 40*9) / 100 = 7.2
		items := []OrderLineItem{orderItem("P1", 100, "10", valueobject.USD)}
		procs := []ProcurementLineItem{
			procItem("P1", 60, "6", valueobject.USD, nil, true),
			procItem("P1", 40, "9", valueobject.USD, nil, true),
		}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.Equal(t, "7.2", results[0].PurchasePrice.String())
		assert.True(t, results[0].PriceValid)
		assert.Equal(t, "28", results[0].PriceMarginPercent.String())
	})

	t.Run("cross-currency comparison", func(t *testing.T) {
		// 350 TWD = 11.20 USD order price vs 7 USD purchase price
		items := []OrderLineItem{orderItem("P1", 10, "350", valueobject.TWD)}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.True(t, results[0].PriceValid)
		assert.Equal(t, "37.5", results[0].PriceMarginPercent.String())
	})

	t.Run("item currency falls back to order currency", func(t *testing.T) {
		items := []OrderLineItem{orderItem("P1", 10, "350", "")}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.TWD)
		require.NoError(t, err)

		assert.Equal(t, valueobject.TWD, results[0].OrderCurrency)
		assert.True(t, results[0].PriceValid)
	})
}

func TestValidator_DateBuffer(t *testing.T) {
	v := newTestValidator()

	makeOrderItem := func(batchDate *time.Time) OrderLineItem {
		item := orderItem("P1", 10, "10", valueobject.USD)
		if batchDate != nil {
			item.Batches = []ShipmentBatch{{
				ID:              uuid.New(),
				BatchNumber:     1,
				Quantity:        decimal.NewFromInt(10),
				PlannedShipDate: *batchDate,
				Status:          BatchStatusPending,
			}}
		}
		return item
	}

	t.Run("positive buffer", func(t *testing.T) {
		items := []OrderLineItem{makeOrderItem(datePtr(2024, time.May, 30))}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.May, 20), true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.True(t, results[0].DateValid)
		assert.Equal(t, 10, results[0].DateBufferDays)
	})

	t.Run("procurement later than order promise", func(t *testing.T) {
		items := []OrderLineItem{makeOrderItem(datePtr(2024, time.May, 30))}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.June, 5), true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.False(t, results[0].DateValid)
	})

	t.Run("missing order date is valid", func(t *testing.T) {
		items := []OrderLineItem{makeOrderItem(nil)}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.June, 5), true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.True(t, results[0].DateValid)
		assert.Zero(t, results[0].DateBufferDays)
	})

	t.Run("missing procurement date is valid", func(t *testing.T) {
		items := []OrderLineItem{makeOrderItem(datePtr(2024, time.May, 30))}
		procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.NoError(t, err)

		assert.True(t, results[0].DateValid)
		assert.Zero(t, results[0].DateBufferDays)
	})

	t.Run("latest dates on both sides are compared", func(t *testing.T) {
		item := orderItem("P1", 20, "10", valueobject.USD)
		item.Batches = []ShipmentBatch{
			{ID: uuid.New(), BatchNumber: 1, Quantity: decimal.NewFromInt(10), PlannedShipDate: *datePtr(2024, time.May, 10), Status: BatchStatusPending},
			{ID: uuid.New(), BatchNumber: 2, Quantity: decimal.NewFromInt(10), PlannedShipDate: *datePtr(2024, time.May, 28), Status: BatchStatusPending},
		}
		procs := []ProcurementLineItem{
			procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.May, 5), true),
			procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.May, 25), true),
		}

		results, _, err := v.Validate(context.Background(), []OrderLineItem{item}, procs, valueobject.USD)
		require.NoError(t, err)

		assert.True(t, results[0].DateValid)
		assert.Equal(t, 3, results[0].DateBufferDays)
	})
}

func TestValidator_MalformedInput(t *testing.T) {
	v := newTestValidator()

	t.Run("order item without product code", func(t *testing.T) {
		items := []OrderLineItem{
			orderItem("", 10, "10", valueobject.USD),
			orderItem("P2", 10, "10", valueobject.USD),
		}
		procs := []ProcurementLineItem{procItem("P2", 10, "7", valueobject.USD, nil, true)}

		results, _, err := v.Validate(context.Background(), items, procs, valueobject.USD)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MALFORMED_INPUT", domainErr.Code)

		// The well-formed record is still processed.
		require.Len(t, results, 1)
		assert.Equal(t, "P2", results[0].ProductCode)
		assert.True(t, results[0].PriceValid)
	})

	t.Run("selected procurement item with non-positive quantity", func(t *testing.T) {
		items := []OrderLineItem{orderItem("P1", 10, "10", valueobject.USD)}
		bad := procItem("P1", 10, "7", valueobject.USD, nil, true)
		bad.Quantity = decimal.Zero
		good := procItem("P1", 10, "7", valueobject.USD, nil, true)

		results, _, err := v.Validate(context.Background(), items, []ProcurementLineItem{bad, good}, valueobject.USD)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MALFORMED_INPUT", domainErr.Code)

		// The malformed item is excluded, the good one still matches.
		require.Len(t, results, 1)
		assert.True(t, results[0].PurchaseQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, results[0].QuantityValid)
	})
}

func TestValidator_CurrencyFailureSkipsRow(t *testing.T) {
	v := newTestValidator()
	items := []OrderLineItem{
		orderItem("P1", 10, "10", "XXX"), // unknown currency
		orderItem("P2", 5, "10", valueobject.USD),
	}
	procs := []ProcurementLineItem{
		procItem("P1", 10, "7", valueobject.USD, nil, true),
		procItem("P2", 5, "7", valueobject.USD, nil, true),
	}

	results, summary, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Failed row: price axis invalid, failure recorded, other axes unaffected.
	assert.False(t, results[0].PriceValid)
	assert.NotEmpty(t, results[0].CurrencyFailure)
	assert.True(t, results[0].PriceMarginPercent.IsZero())
	assert.True(t, results[0].QuantityValid)

	// Other rows proceed normally.
	assert.True(t, results[1].PriceValid)
	assert.Empty(t, results[1].CurrencyFailure)

	assert.Equal(t, 1, summary.ValidPriceCount)
	assert.False(t, summary.IsAllValid)
}

func TestValidator_Summary(t *testing.T) {
	v := newTestValidator()

	items := []OrderLineItem{
		orderItem("P1", 10, "10", valueobject.USD),
		orderItem("P2", 20, "10", valueobject.USD),
		orderItem("P3", 30, "10", valueobject.USD),
	}
	items[0].Batches = []ShipmentBatch{{ID: uuid.New(), BatchNumber: 1, Quantity: decimal.NewFromInt(10), PlannedShipDate: *datePtr(2024, time.May, 30), Status: BatchStatusPending}}

	procs := []ProcurementLineItem{
		// P1: margin 30%, qty match, buffer 10 days
		procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.May, 20), true),
		// P2: margin 50%, qty mismatch
		procItem("P2", 19, "5", valueobject.USD, nil, true),
		// P3: no match
	}

	results, summary, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.ValidPriceCount)
	assert.Equal(t, 1, summary.ValidQuantityCount)
	assert.Equal(t, 2, summary.ValidDateCount) // P3 has no match -> dateValid false
	assert.Equal(t, "40", summary.AveragePriceMarginPercent.String())
	assert.Equal(t, "10", summary.AverageDateBufferDays.String())
	assert.False(t, summary.IsAllValid)
}

func TestValidator_AllValid(t *testing.T) {
	v := newTestValidator()

	items := []OrderLineItem{orderItem("P1", 10, "10", valueobject.USD)}
	procs := []ProcurementLineItem{procItem("P1", 10, "7", valueobject.USD, nil, true)}

	_, summary, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)
	assert.True(t, summary.IsAllValid)
}

// Identical inputs and oracle behavior produce identical outputs.
func TestValidator_Idempotence(t *testing.T) {
	v := newTestValidator()

	items := []OrderLineItem{
		orderItem("P1", 10, "350", valueobject.TWD),
		orderItem("P2", 20, "15", valueobject.EUR),
	}
	items[0].Batches = []ShipmentBatch{{ID: uuid.New(), BatchNumber: 1, Quantity: decimal.NewFromInt(10), PlannedShipDate: *datePtr(2024, time.May, 30), Status: BatchStatusPending}}
	procs := []ProcurementLineItem{
		procItem("P1", 10, "7", valueobject.USD, datePtr(2024, time.May, 20), true),
		procItem("P2", 20, "12", valueobject.EUR, nil, true),
	}

	first, firstSummary, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)
	second, secondSummary, err := v.Validate(context.Background(), items, procs, valueobject.USD)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary, secondSummary)
}
