package billing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/westbethel/motel-booking/internal/model"
)

// GatewayResult is the processor's verdict on one settlement call.
type GatewayResult struct {
	Approved bool
	AuthCode string
	Reason   string
}

// GatewayClient is the external card processor.  Every call is a remote
// operation; outcomes, not errors, carry decline information.  An error
// means the processor could not be reached at all.
type GatewayClient interface {
	Authorize(ctx context.Context, paymentToken string, amount model.Money) (GatewayResult, error)
	Capture(ctx context.Context, authCode string, amount model.Money) (GatewayResult, error)
	Refund(ctx context.Context, authCode string, amount model.Money) (GatewayResult, error)
	Void(ctx context.Context, authCode string) (GatewayResult, error)
}

// SimulatedGateway approves everything except tokens ending in the
// configured decline suffix.  It stands in for a real processor in
// development and tests.
type SimulatedGateway struct {
	declineSuffix string
}

// NewSimulatedGateway builds a simulated processor.  An empty suffix
// defaults to "0000".
func NewSimulatedGateway(declineSuffix string) *SimulatedGateway {
	if declineSuffix == "" {
		declineSuffix = "0000"
	}
	return &SimulatedGateway{declineSuffix: declineSuffix}
}

// Processor is the name recorded on payment rows.
const Processor = "SIMULATED"

func (g *SimulatedGateway) Authorize(_ context.Context, paymentToken string, _ model.Money) (GatewayResult, error) {
	if paymentToken == "" || strings.HasSuffix(paymentToken, g.declineSuffix) {
		return GatewayResult{Approved: false, Reason: "card declined"}, nil
	}
	code, err := authCode()
	if err != nil {
		return GatewayResult{}, err
	}
	return GatewayResult{Approved: true, AuthCode: code}, nil
}

func (g *SimulatedGateway) Capture(_ context.Context, authCode string, _ model.Money) (GatewayResult, error) {
	return GatewayResult{Approved: true, AuthCode: authCode}, nil
}

func (g *SimulatedGateway) Refund(_ context.Context, authCode string, _ model.Money) (GatewayResult, error) {
	return GatewayResult{Approved: true, AuthCode: authCode}, nil
}

func (g *SimulatedGateway) Void(_ context.Context, authCode string) (GatewayResult, error) {
	return GatewayResult{Approved: true, AuthCode: authCode}, nil
}

// authCode builds a processor reference of the form AUTH-8HEXUPPER.
func authCode() (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "AUTH-" + strings.ToUpper(hex.EncodeToString(raw)), nil
}
