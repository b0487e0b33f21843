package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
)

func chargeRequest() booking.ChargeRequest {
	return booking.ChargeRequest{
		BookingID:  "b-1",
		Reference:  "CLR-20260105-0001",
		PaymentID:  "p-1",
		Amount:     decimal.RequireFromString("150.50"),
		Method:     "visa",
		Type:       booking.PaymentInitial,
		PayerEmail: "ada@example.com",
	}
}

func TestSimulatedGateway(t *testing.T) {
	g := NewSimulatedGateway(0)

	res, err := g.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.True(t, strings.HasPrefix(res.TransactionID, "sim_"))

	req := chargeRequest()
	req.Method = "test-decline"
	res, err = g.Charge(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.Equal(t, "card declined", res.FailureReason)
}

func TestSimulatedGateway_HonoursContext(t *testing.T) {
	g := NewSimulatedGateway(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Charge(ctx, chargeRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeCreator struct {
	got  mppayment.Request
	resp *mppayment.Response
	err  error
}

func (f *fakeCreator) Create(ctx context.Context, request mppayment.Request) (*mppayment.Response, error) {
	f.got = request
	return f.resp, f.err
}

func newTestGateway(client paymentCreator) *MercadoPagoGateway {
	logger, _ := test.NewNullLogger()
	return newMercadoPagoGateway(client, logrus.NewEntry(logger))
}

func TestMercadoPagoGateway_Approved(t *testing.T) {
	client := &fakeCreator{resp: &mppayment.Response{ID: 987, Status: "approved"}}
	g := newTestGateway(client)

	res, err := g.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)

	assert.True(t, res.Approved)
	assert.Equal(t, "987", res.TransactionID)
	assert.Equal(t, 150.5, client.got.TransactionAmount)
	assert.Equal(t, "visa", client.got.PaymentMethodID)
	assert.Equal(t, "p-1", client.got.ExternalReference)
	require.NotNil(t, client.got.Payer)
	assert.Equal(t, "ada@example.com", client.got.Payer.Email)
}

func TestMercadoPagoGateway_Rejected(t *testing.T) {
	client := &fakeCreator{resp: &mppayment.Response{ID: 5, Status: "rejected", StatusDetail: "cc_rejected_insufficient_amount"}}
	g := newTestGateway(client)

	res, err := g.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)

	assert.False(t, res.Approved)
	assert.Equal(t, "cc_rejected_insufficient_amount", res.FailureReason)
}

func TestMercadoPagoGateway_TransportError(t *testing.T) {
	g := newTestGateway(&fakeCreator{err: errors.New("timeout")})

	_, err := g.Charge(context.Background(), chargeRequest())
	assert.EqualError(t, err, "timeout")
}

func TestNewMercadoPagoGateway_RequiresToken(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := NewMercadoPagoGateway("", logrus.NewEntry(logger))
	assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)
}
