package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
)

const (
	IntentSucceeded             = "succeeded"
	IntentProcessing            = "processing"
	IntentCanceled              = "canceled"
	IntentRequiresPaymentMethod = "requires_payment_method"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// ProviderError is an error reported by the payment provider API.
type ProviderError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	Name        string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type Session struct {
	ID            string
	URL           string
	PaymentIntent string
	Status        string
}

// PaymentState is the payment intent behind a checkout session.
type PaymentState struct {
	IntentID string
	Status   string
}

func (p PaymentState) Succeeded() bool { return p.Status == IntentSucceeded }

// Settled reports a payment that went through or is being processed.
func (p PaymentState) Settled() bool {
	return p.Status == IntentSucceeded || p.Status == IntentProcessing
}

var paymentMethodTypes = []string{"card", "sepa_debit", "klarna"}

// StripeClient drives checkout sessions, payment intents and refunds through
// stripe-go. baseURL points the API backend elsewhere, which tests use.
type StripeClient struct {
	sessions *session.Client
	intents  *paymentintent.Client
	refunds  *refund.Client
}

func NewStripeClient(baseURL, secretKey string, hc *http.Client, log *slog.Logger) *StripeClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(strings.TrimRight(baseURL, "/")),
		HTTPClient:        hc,
		MaxNetworkRetries: stripe.Int64(1),
		LeveledLogger:     stripeLogger{log: log},
	})
	return &StripeClient{
		sessions: &session.Client{B: backend, Key: secretKey},
		intents:  &paymentintent.Client{B: backend, Key: secretKey},
		refunds:  &refund.Client{B: backend, Key: secretKey},
	}
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		PaymentMethodTypes: stripe.StringSlice(paymentMethodTypes),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(req.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(req.Name),
					Description: stripe.String(req.Description),
				},
			},
		}},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cs, err := c.sessions.New(params)
	if err != nil {
		return nil, providerError("create checkout session", err)
	}
	return toSession(cs), nil
}

func (c *StripeClient) GetCheckoutSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	cs, err := c.sessions.Get(id, params)
	if err != nil {
		return nil, providerError("get checkout session", err)
	}
	return toSession(cs), nil
}

// SessionPayment looks up the payment intent state of a checkout session. A
// session without an intent yet reports an empty status.
func (c *StripeClient) SessionPayment(ctx context.Context, sessionID string) (*PaymentState, error) {
	s, err := c.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.PaymentIntent == "" {
		return &PaymentState{}, nil
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.intents.Get(s.PaymentIntent, params)
	if err != nil {
		return nil, providerError("get payment intent", err)
	}
	return &PaymentState{IntentID: pi.ID, Status: string(pi.Status)}, nil
}

func (c *StripeClient) Refund(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	params.Context = ctx
	if _, err := c.refunds.New(params); err != nil {
		return providerError("refund", err)
	}
	return nil
}

func toSession(cs *stripe.CheckoutSession) *Session {
	s := &Session{ID: cs.ID, URL: cs.URL, Status: string(cs.Status)}
	if cs.PaymentIntent != nil {
		s.PaymentIntent = cs.PaymentIntent.ID
	}
	return s
}

// providerError unwraps API errors into ProviderError and wraps transport
// failures with the operation name.
func providerError(op string, err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return &ProviderError{
			StatusCode: serr.HTTPStatusCode,
			Type:       string(serr.Type),
			Code:       string(serr.Code),
			Message:    serr.Msg,
		}
	}
	return fmt.Errorf("payment provider %s: %w", op, err)
}

// stripeLogger routes stripe-go diagnostics into the service logger. Request
// chatter stays at debug.
type stripeLogger struct {
	log *slog.Logger
}

func (l stripeLogger) logger() *slog.Logger {
	if l.log == nil {
		return slog.Default()
	}
	return l.log
}

func (l stripeLogger) Debugf(format string, v ...interface{}) {
	l.logger().Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l stripeLogger) Infof(format string, v ...interface{}) {
	l.logger().Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l stripeLogger) Warnf(format string, v ...interface{}) {
	l.logger().Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l stripeLogger) Errorf(format string, v ...interface{}) {
	l.logger().Error(fmt.Sprintf(format, v...), "component", "stripe")
}

// Disabled stands in when no provider credentials are configured.
type Disabled struct{}

func (Disabled) CreateCheckoutSession(context.Context, CheckoutRequest) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Disabled) SessionPayment(context.Context, string) (*PaymentState, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Refund(context.Context, string) error { return ErrNotConfigured }
