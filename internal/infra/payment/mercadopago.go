package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

const statusApproved = "approved"

type paymentCreator interface {
	Create(ctx context.Context, request mppayment.Request) (*mppayment.Response, error)
}

type MercadoPagoGateway struct {
	client paymentCreator
	log    *logrus.Entry
}

var _ booking.Gateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string, log *logrus.Entry) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}

	return newMercadoPagoGateway(mppayment.NewClient(cfg), log), nil
}

func newMercadoPagoGateway(client paymentCreator, log *logrus.Entry) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		client: client,
		log:    log.WithField("component", "mercadopago"),
	}
}

// Charge creates a payment and reports it approved only when Mercado Pago
// answers "approved". Any other provider status is a decline carrying the
// status detail as reason.
func (g *MercadoPagoGateway) Charge(ctx context.Context, req booking.ChargeRequest) (booking.ChargeResult, error) {
	request, err := buildRequest(req)
	if err != nil {
		return booking.ChargeResult{}, err
	}

	resp, err := g.client.Create(ctx, request)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"booking_id": req.BookingID,
			"payment_id": req.PaymentID,
		}).WithError(err).Error("sdk create failed")
		return booking.ChargeResult{}, err
	}

	g.log.WithFields(logrus.Fields{
		"booking_id":          req.BookingID,
		"provider_payment_id": resp.ID,
		"provider_status":     resp.Status,
	}).Info("payment created")

	if resp.Status != statusApproved {
		reason := resp.StatusDetail
		if reason == "" {
			reason = resp.Status
		}
		return booking.ChargeResult{
			TransactionID: fmt.Sprintf("%d", resp.ID),
			FailureReason: reason,
		}, nil
	}

	return booking.ChargeResult{
		Approved:      true,
		TransactionID: fmt.Sprintf("%d", resp.ID),
	}, nil
}

func buildRequest(req booking.ChargeRequest) (mppayment.Request, error) {
	payload := map[string]any{
		"transaction_amount": req.Amount.InexactFloat64(),
		"description":        fmt.Sprintf("%s %s payment", req.Reference, req.Type),
		"payment_method_id":  req.Method,
		"external_reference": req.PaymentID,
		"payer": map[string]any{
			"email": req.PayerEmail,
		},
		"metadata": map[string]any{
			"booking_id": req.BookingID,
			"reference":  req.Reference,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return mppayment.Request{}, err
	}

	var request mppayment.Request
	if err := json.Unmarshal(raw, &request); err != nil {
		return mppayment.Request{}, err
	}
	return request, nil
}
