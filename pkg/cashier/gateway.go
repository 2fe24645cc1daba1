package cashier

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// Gateway is the subset of the Paystack API that Cashier calls.
// *paystack.Client implements it.
type Gateway interface {
	CreateCustomer(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	FetchCustomer(ctx context.Context, idOrCode string) (*paystack.Result, error)

	CreateSubscription(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	FetchSubscription(ctx context.Context, idOrCode string) (*paystack.Result, error)
	ListSubscriptions(ctx context.Context, customer string) (*paystack.Result, error)
	EnableSubscription(ctx context.Context, code, emailToken string) (*paystack.Result, error)
	DisableSubscription(ctx context.Context, code, emailToken string) (*paystack.Result, error)
	SubscriptionManageLink(ctx context.Context, code string) (*paystack.Result, error)

	Charge(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	InitializeTransaction(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	ChargeAuthorization(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	CheckAuthorization(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	Refund(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	DeactivateAuthorization(ctx context.Context, authorizationCode string) (*paystack.Result, error)

	CreateInvoice(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	ListInvoices(ctx context.Context, p paystack.Params) (*paystack.Result, error)
	FetchInvoice(ctx context.Context, idOrCode string) (*paystack.Result, error)
}

var _ Gateway = (*paystack.Client)(nil)

// requireStatus turns a response whose envelope reports failure into a
// GatewayError, so callers see transport and envelope failures alike.
func requireStatus(res *paystack.Result, err error) (*paystack.Result, error) {
	if err != nil {
		return nil, err
	}
	if !res.Status {
		return nil, &paystack.GatewayError{StatusCode: http.StatusOK, Message: res.Message}
	}
	return res, nil
}

// isNotFound reports whether err is a Paystack 404.
func isNotFound(err error) bool {
	var gwErr *paystack.GatewayError
	return errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusNotFound
}
