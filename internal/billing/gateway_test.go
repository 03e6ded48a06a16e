package billing

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westbethel/motel-booking/internal/model"
)

var authCodePattern = regexp.MustCompile(`^AUTH-[0-9A-F]{8}$`)

func TestSimulatedGateway_Authorize(t *testing.T) {
	g := NewSimulatedGateway("")
	amount := model.NewMoney(20000, "USD")

	res, err := g.Authorize(context.Background(), "tok_4242", amount)
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Regexp(t, authCodePattern, res.AuthCode)
	assert.Empty(t, res.Reason)
}

func TestSimulatedGateway_DeclinesBySuffix(t *testing.T) {
	g := NewSimulatedGateway("")

	res, err := g.Authorize(context.Background(), "tok_0000", model.NewMoney(5000, "USD"))
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.Equal(t, "card declined", res.Reason)
	assert.Empty(t, res.AuthCode)
}

func TestSimulatedGateway_CustomDeclineSuffix(t *testing.T) {
	g := NewSimulatedGateway("9999")

	res, err := g.Authorize(context.Background(), "tok_9999", model.NewMoney(5000, "USD"))
	require.NoError(t, err)
	assert.False(t, res.Approved)

	res, err = g.Authorize(context.Background(), "tok_0000", model.NewMoney(5000, "USD"))
	require.NoError(t, err)
	assert.True(t, res.Approved)
}

func TestSimulatedGateway_EmptyTokenDeclined(t *testing.T) {
	g := NewSimulatedGateway("")

	res, err := g.Authorize(context.Background(), "", model.NewMoney(5000, "USD"))
	require.NoError(t, err)
	assert.False(t, res.Approved)
}

func TestSimulatedGateway_CaptureRefundVoidApprove(t *testing.T) {
	g := NewSimulatedGateway("")
	amount := model.NewMoney(20000, "USD")

	res, err := g.Capture(context.Background(), "AUTH-CAFEBABE", amount)
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, "AUTH-CAFEBABE", res.AuthCode)

	res, err = g.Refund(context.Background(), "AUTH-CAFEBABE", amount)
	require.NoError(t, err)
	assert.True(t, res.Approved)

	res, err = g.Void(context.Background(), "AUTH-CAFEBABE")
	require.NoError(t, err)
	assert.True(t, res.Approved)
}
