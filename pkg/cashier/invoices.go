package cashier

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// Tab creates a Paystack payment request for the billable.
// opts must carry a "due_date" as time.Time, *time.Time, or an RFC 3339 /
// YYYY-MM-DD string.
func (c *Cashier) Tab(ctx context.Context, billable Billable, description string, amount int64, opts paystack.Params) (*paystack.Result, error) {
	customer, err := c.requireCustomer(ctx, billable.BillingOwner())
	if err != nil {
		return nil, err
	}

	due, ok := opts["due_date"]
	if !ok {
		return nil, ErrMissingDueDate
	}
	dueDate, err := parseDueDate(due)
	if err != nil {
		return nil, err
	}

	payload := paystack.Params{
		"customer":    *customer.PaystackID,
		"amount":      amount,
		"currency":    c.cfg.Currency,
		"description": description,
	}.Merge(opts)
	payload["due_date"] = dueDate.Format(time.RFC3339)

	return requireStatus(c.gateway.CreateInvoice(ctx, payload))
}

// InvoiceFor is an alias of Tab.
func (c *Cashier) InvoiceFor(ctx context.Context, billable Billable, description string, amount int64, opts paystack.Params) (*paystack.Result, error) {
	return c.Tab(ctx, billable, description, amount, opts)
}

// Invoices lists the billable's payment requests. opts are passed as query
// filters (status, paid, page, perPage).
func (c *Cashier) Invoices(ctx context.Context, billable Billable, opts paystack.Params) ([]paystack.Invoice, error) {
	customer, err := c.requireCustomer(ctx, billable.BillingOwner())
	if err != nil {
		return nil, err
	}

	params := paystack.Params{"customer": strconv.FormatInt(*customer.PaystackID, 10)}.Merge(opts)
	res, err := requireStatus(c.gateway.ListInvoices(ctx, params))
	if err != nil {
		return nil, err
	}
	if !res.HasData() {
		return []paystack.Invoice{}, nil
	}

	var invoices []paystack.Invoice
	if err := res.Decode(&invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicesOnlyPending lists the billable's unpaid payment requests.
func (c *Cashier) InvoicesOnlyPending(ctx context.Context, billable Billable, opts paystack.Params) ([]paystack.Invoice, error) {
	filter := make(paystack.Params, len(opts)+1)
	maps.Copy(filter, opts)
	filter["status"] = "pending"
	return c.Invoices(ctx, billable, filter)
}

// InvoicesOnlyPaid lists the billable's settled payment requests.
func (c *Cashier) InvoicesOnlyPaid(ctx context.Context, billable Billable, opts paystack.Params) ([]paystack.Invoice, error) {
	filter := make(paystack.Params, len(opts)+1)
	maps.Copy(filter, opts)
	filter["paid"] = "true"
	return c.Invoices(ctx, billable, filter)
}

// FindInvoice fetches a payment request by id or code and checks that it
// belongs to the billable. Returns ErrInvoiceNotFound otherwise.
func (c *Cashier) FindInvoice(ctx context.Context, billable Billable, idOrCode string) (*paystack.Invoice, error) {
	customer, err := c.requireCustomer(ctx, billable.BillingOwner())
	if err != nil {
		return nil, err
	}

	res, err := requireStatus(c.gateway.FetchInvoice(ctx, idOrCode))
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Join(ErrInvoiceNotFound, err)
		}
		return nil, err
	}
	if !res.HasData() {
		return nil, ErrInvoiceNotFound
	}

	var invoice paystack.Invoice
	if err := res.Decode(&invoice); err != nil {
		return nil, err
	}
	if invoice.Customer.ID != *customer.PaystackID {
		return nil, ErrInvoiceNotFound
	}
	return &invoice, nil
}

func parseDueDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d != nil {
			return *d, nil
		}
	case string:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, errors.Join(ErrInvalidDueDate, fmt.Errorf("unsupported due date %v", v))
}
