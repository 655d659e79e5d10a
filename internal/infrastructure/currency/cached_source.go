package currency

import (
	"context"
	"time"

	domaincurrency "github.com/GranDen-Corp/ls-erp-sub002/internal/domain/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const rateKeyPrefix = "currency:rate:"

// CachedRateSource wraps a RateSource with a Redis cache. Cache failures
// degrade to the inner source; a lookup failure of the inner source is
// never cached.
type CachedRateSource struct {
	inner  domaincurrency.RateSource
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRateSource creates a Redis-cached rate source
func NewCachedRateSource(inner domaincurrency.RateSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRateSource {
	return &CachedRateSource{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// RateToReference returns the cached rate, falling back to the inner source
func (s *CachedRateSource) RateToReference(ctx context.Context, code valueobject.Currency) (decimal.Decimal, error) {
	key := rateKeyPrefix + string(code)

	cached, err := s.client.Get(ctx, key).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return rate, nil
		}
		s.logger.Warn("dropping unparseable cached rate",
			zap.String("currency", string(code)),
			zap.String("value", cached))
		s.client.Del(ctx, key)
	} else if err != redis.Nil {
		s.logger.Warn("rate cache read failed, falling back to source",
			zap.String("currency", string(code)),
			zap.Error(err))
	}

	rate, err := s.inner.RateToReference(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if setErr := s.client.Set(ctx, key, rate.String(), s.ttl).Err(); setErr != nil {
		s.logger.Warn("rate cache write failed",
			zap.String("currency", string(code)),
			zap.Error(setErr))
	}

	return rate, nil
}

// Ensure CachedRateSource implements RateSource
var _ domaincurrency.RateSource = (*CachedRateSource)(nil)
