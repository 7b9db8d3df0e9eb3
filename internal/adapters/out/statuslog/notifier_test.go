package statuslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func TestNotifier_LogsTransition(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))
	orderID := kernel.NewUUID()

	err := n.NotifyStatusChanged(t.Context(), order.StatusChanged{
		OrderID:        orderID,
		RestaurantID:   kernel.NewUUID(),
		Status:         order.Cancelled,
		PreviousStatus: order.Pending,
		ChangedAt:      time.Now(),
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "status_notifier", line["component"])
	assert.Equal(t, orderID.String(), line["order_id"])
	assert.Equal(t, "CANCELLED", line["status"])
	assert.Equal(t, "PENDING", line["previous_status"])
}
