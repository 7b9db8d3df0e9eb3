package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"(555) 123-4567", "+15551234567"},
		{"555.123.4567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"4420794609", "+14420794609"},
		{"442079460958", "+442079460958"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := kernel.NormalizePhone(tc.raw)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("empty phone is required", func(t *testing.T) {
		_, err := kernel.NormalizePhone("  ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
