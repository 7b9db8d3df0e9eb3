package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) services.FeeEngine {
	t.Helper()
	engine, err := services.NewFeeEngine(services.DefaultFeeSchedule())
	require.NoError(t, err)
	return engine
}

func TestFeeEngine_CustomerDeliveryFee(t *testing.T) {
	engine := newEngine(t)
	policy := restaurant.DefaultDeliveryPolicy()

	tests := []struct {
		name     string
		subtotal kernel.Cents
		expected kernel.Cents
	}{
		{"below reduced tier", 3499, 499},
		{"exactly reduced threshold", 3500, 299},
		{"inside reduced tier", 9999, 299},
		{"exactly free threshold", 10000, 0},
		{"above free threshold", 25000, 0},
		{"empty subtotal", 0, 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.CustomerDeliveryFee(tt.subtotal, order.Delivery, policy))
		})
	}

	t.Run("should charge nothing for pickup", func(t *testing.T) {
		assert.Equal(t, kernel.Cents(0), engine.CustomerDeliveryFee(10, order.Pickup, policy))
	})

	t.Run("should skip disabled tiers", func(t *testing.T) {
		p := policy
		p.FreeDeliveryMin = 0
		assert.Equal(t, kernel.Cents(299), engine.CustomerDeliveryFee(50000, order.Delivery, p))

		p.ReducedFeeMin = 0
		assert.Equal(t, kernel.Cents(499), engine.CustomerDeliveryFee(50000, order.Delivery, p))
	})

	t.Run("should prefer free tier when thresholds overlap", func(t *testing.T) {
		p := policy
		p.ReducedFeeMin = 5000
		p.FreeDeliveryMin = 5000
		assert.Equal(t, kernel.Cents(0), engine.CustomerDeliveryFee(5000, order.Delivery, p))
	})
}

func TestFeeEngine_CourierCost(t *testing.T) {
	engine := newEngine(t)

	assert.Equal(t, kernel.Cents(975), engine.CourierCost(order.Delivery, false, 500))
	assert.Equal(t, kernel.Cents(975), engine.CourierCost(order.Delivery, true, 0))
	assert.Equal(t, kernel.Cents(700), engine.CourierCost(order.Delivery, true, 1))
	assert.Equal(t, kernel.Cents(0), engine.CourierCost(order.Pickup, true, 500))
}

func TestFeeEngine_Savings(t *testing.T) {
	engine := newEngine(t)

	t.Run("should price tip pass-through delivery", func(t *testing.T) {
		s := engine.Savings(4000, order.Delivery, true, 500)

		assert.Equal(t, kernel.Cents(1200), s.MarketplaceFee)
		assert.Equal(t, kernel.Cents(700), s.CourierCost)
		assert.Equal(t, kernel.Cents(500), s.Savings)
	})

	t.Run("should have zero courier cost for pickup", func(t *testing.T) {
		s := engine.Savings(4000, order.Pickup, false, 0)

		assert.Equal(t, kernel.Cents(0), s.CourierCost)
		assert.Equal(t, s.MarketplaceFee, s.Savings)
	})

	t.Run("should allow negative savings on small orders", func(t *testing.T) {
		s := engine.Savings(1000, order.Delivery, false, 0)

		assert.Equal(t, kernel.Cents(300), s.MarketplaceFee)
		assert.Equal(t, kernel.Cents(-675), s.Savings)
	})

	t.Run("should round marketplace fee half up", func(t *testing.T) {
		// 3335 * 0.30 = 1000.5
		assert.Equal(t, kernel.Cents(1001), engine.Savings(3335, order.Pickup, false, 0).MarketplaceFee)
		// 3331 * 0.30 = 999.3
		assert.Equal(t, kernel.Cents(999), engine.Savings(3331, order.Pickup, false, 0).MarketplaceFee)
	})

	t.Run("should balance for every subtotal", func(t *testing.T) {
		for subtotal := kernel.Cents(0); subtotal <= 20000; subtotal += 7 {
			for _, f := range []order.Fulfillment{order.Delivery, order.Pickup} {
				s := engine.Savings(subtotal, f, subtotal%2 == 0, subtotal%3)
				require.Equal(t, s.MarketplaceFee, s.Savings+s.CourierCost, "subtotal %d", subtotal)
			}
		}
	})
}

func TestFeeEngine_Charges(t *testing.T) {
	engine := newEngine(t)
	policy := restaurant.DefaultDeliveryPolicy()
	policy.PassTip = true

	t.Run("should combine delivery fee and savings", func(t *testing.T) {
		charges, err := engine.Charges(4000, order.Delivery, policy, 500)

		require.NoError(t, err)
		assert.Equal(t, order.Charges{DeliveryFee: 299, MarketplaceFee: 1200, CourierCost: 700, Savings: 500}, charges)
		require.NoError(t, charges.Validate())
	})

	t.Run("should reject negative input", func(t *testing.T) {
		_, err := engine.Charges(-1, order.Delivery, policy, -1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "subtotal")
		assert.Contains(t, err.Error(), "tip")
	})
}

func TestNewFeeEngine(t *testing.T) {
	_, err := services.NewFeeEngine(services.FeeSchedule{MarketplaceRateBps: 10001})
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = services.NewFeeEngine(services.FeeSchedule{StandardCourierCost: -1})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	engine, err := services.NewFeeEngine(services.FeeSchedule{})
	require.NoError(t, err)
	assert.Equal(t, services.FeeSchedule{}, engine.Schedule())
}
