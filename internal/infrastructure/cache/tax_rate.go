package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/smallerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TaxRateKey holds the current tax rate as a decimal string, e.g. "0.16"
const TaxRateKey = "settings:tax_rate"

// RedisTaxRateProvider reads the tax rate setting from Redis on every
// posting. A missing, unreadable or out-of-range value falls back to the
// configured rate.
type RedisTaxRateProvider struct {
	client   redis.Cmdable
	fallback decimal.Decimal
	logger   *zap.Logger
}

// NewRedisTaxRateProvider creates a new RedisTaxRateProvider
func NewRedisTaxRateProvider(client redis.Cmdable, fallback decimal.Decimal, logger *zap.Logger) *RedisTaxRateProvider {
	return &RedisTaxRateProvider{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}
}

// TaxRate returns the current rate. It never fails.
func (p *RedisTaxRateProvider) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	raw, err := p.client.Get(ctx, TaxRateKey).Result()
	if errors.Is(err, redis.Nil) {
		return p.fallback, nil
	}
	if err != nil {
		p.logger.Warn("tax rate setting unavailable, using configured rate",
			zap.String("fallback", p.fallback.String()),
			zap.Error(err),
		)
		return p.fallback, nil
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) || !shared.FitsScale(rate) {
		p.logger.Warn("ignoring invalid tax rate setting",
			zap.String("value", raw),
			zap.String("fallback", p.fallback.String()),
		)
		return p.fallback, nil
	}
	return rate, nil
}
