package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("12.50", TWD)
	require.NoError(t, err)
	assert.Equal(t, TWD, m.Currency())
	assert.Equal(t, "12.50", m.Amount().StringFixed(2))

	_, err = NewMoneyFromString("not-a-number", TWD)
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	ten := NewMoneyUSD(decimal.NewFromInt(10))
	three := NewMoneyUSD(decimal.NewFromInt(3))

	t.Run("add", func(t *testing.T) {
		sum, err := ten.Add(three)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(13)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := ten.Subtract(three)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(7)))
	})

	t.Run("multiply", func(t *testing.T) {
		product := ten.Multiply(decimal.NewFromInt(4))
		assert.True(t, product.Amount().Equal(decimal.NewFromInt(40)))
	})

	t.Run("divide", func(t *testing.T) {
		q, err := ten.Divide(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.Equal(t, "2.50", q.Amount().StringFixed(2))
	})

	t.Run("divide by zero", func(t *testing.T) {
		_, err := ten.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		other, _ := NewMoney(decimal.NewFromInt(5), TWD)
		_, err := ten.Add(other)
		assert.Error(t, err)
		_, err = ten.Subtract(other)
		assert.Error(t, err)
		_, err = ten.GreaterThan(other)
		assert.Error(t, err)
	})
}

func TestMoney_Comparisons(t *testing.T) {
	ten := NewMoneyUSD(decimal.NewFromInt(10))
	seven := NewMoneyUSD(decimal.NewFromInt(7))

	gt, err := ten.GreaterThan(seven)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := seven.LessThan(ten)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err = ten.GreaterThan(ten)
	require.NoError(t, err)
	assert.False(t, gt)

	assert.True(t, ten.Equals(NewMoneyUSD(decimal.NewFromInt(10))))
	assert.False(t, ten.Equals(seven))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, Zero(USD).IsZero())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_JSON(t *testing.T) {
	m, _ := NewMoneyFromString("99.99", USD)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"99.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.42"))
	assert.Equal(t, ReferenceCurrency, m.Currency())
	assert.Equal(t, "42.42", m.Amount().StringFixed(2))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(3.14))
}
