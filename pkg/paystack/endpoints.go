package paystack

import (
	"context"
	"net/http"
	"net/url"
)

// Charge charges a card or bank account directly.
func (c *Client) Charge(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/charge", p)
}

// InitializeTransaction creates a hosted payment page and returns its authorization URL.
func (c *Client) InitializeTransaction(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/transaction/initialize", p)
}

// ChargeAuthorization charges a previously saved authorization.
func (c *Client) ChargeAuthorization(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/charge_authorization", p)
}

// CheckAuthorization checks that an authorization can cover an amount.
// Paystack deprecated this endpoint in March 2023; it still answers for older integrations.
func (c *Client) CheckAuthorization(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/check_authorization", p)
}

func (c *Client) Refund(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/refund", p)
}

// DeactivateAuthorization removes a saved authorization so it cannot be charged again.
func (c *Client) DeactivateAuthorization(ctx context.Context, authorizationCode string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/deactivate_authorization", Params{
		"authorization_code": authorizationCode,
	})
}

func (c *Client) CreateCustomer(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/customer", p)
}

// FetchCustomer fetches a customer by id, code or email.
func (c *Client) FetchCustomer(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/customer/"+url.PathEscape(idOrCode), nil)
}

func (c *Client) CreateSubscription(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/subscription", p)
}

// FetchSubscription fetches a subscription by id or code.
func (c *Client) FetchSubscription(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/subscription/"+url.PathEscape(idOrCode), nil)
}

// ListSubscriptions lists the subscriptions of one customer.
func (c *Client) ListSubscriptions(ctx context.Context, customer string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/subscription", Params{"customer": customer})
}

func (c *Client) EnableSubscription(ctx context.Context, code, emailToken string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/subscription/enable", Params{
		"code":  code,
		"token": emailToken,
	})
}

func (c *Client) DisableSubscription(ctx context.Context, code, emailToken string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/subscription/disable", Params{
		"code":  code,
		"token": emailToken,
	})
}

// SubscriptionManageLink returns a link where the customer can update the card on a subscription.
func (c *Client) SubscriptionManageLink(ctx context.Context, code string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/subscription/"+url.PathEscape(code)+"/manage/link", nil)
}

// CreateInvoice creates a payment request.
func (c *Client) CreateInvoice(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/paymentrequest", p)
}

func (c *Client) ListInvoices(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/paymentrequest", p)
}

func (c *Client) FetchInvoice(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/paymentrequest/"+url.PathEscape(idOrCode), nil)
}

func (c *Client) UpdateInvoice(ctx context.Context, idOrCode string, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPut, "/paymentrequest/"+url.PathEscape(idOrCode), p)
}

func (c *Client) VerifyInvoice(ctx context.Context, code string) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/paymentrequest/verify/"+url.PathEscape(code), nil)
}

// NotifyInvoice re-sends the payment request email to the customer.
func (c *Client) NotifyInvoice(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/paymentrequest/notify/"+url.PathEscape(idOrCode), nil)
}

// FinalizeInvoice finalizes a draft payment request.
func (c *Client) FinalizeInvoice(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/paymentrequest/finalize/"+url.PathEscape(idOrCode), nil)
}

func (c *Client) ArchiveInvoice(ctx context.Context, idOrCode string) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/paymentrequest/archive/"+url.PathEscape(idOrCode), nil)
}

func (c *Client) CreatePlan(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodPost, "/plan", p)
}

func (c *Client) ListPlans(ctx context.Context) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/plan", nil)
}

func (c *Client) ListTransactions(ctx context.Context, p Params) (*Result, error) {
	return c.Call(ctx, http.MethodGet, "/transaction", p)
}
