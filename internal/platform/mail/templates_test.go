package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstack-backend/internal/domain/shared"
)

func TestRenderOTP(t *testing.T) {
	event, err := shared.NewMailEvent(shared.MailKindOTP, []string{"buyer@example.com"}, map[string]string{
		"code": "123456",
		"ttl":  "10m0s",
	}, "corr-1")
	require.NoError(t, err)

	subject, body, err := Render(event)
	require.NoError(t, err)
	assert.Equal(t, "Your verification code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10m0s")
}

func TestRenderOrderStatus(t *testing.T) {
	event, err := shared.NewMailEvent(shared.MailKindOrderStatus, []string{"buyer@example.com"}, map[string]string{
		"name":     "Ada",
		"order_id": "65d000000000000000000001",
		"status":   "Delivered",
	}, "")
	require.NoError(t, err)

	subject, body, err := Render(event)
	require.NoError(t, err)
	assert.Contains(t, subject, "Delivered")
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "65d000000000000000000001")
}

func TestRenderUnknownKind(t *testing.T) {
	event := &shared.MailEvent{
		Kind: shared.MailKind("BOGUS"),
		To:   []string{"buyer@example.com"},
	}

	_, _, err := Render(event)
	assert.Error(t, err)
}
