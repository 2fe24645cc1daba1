package cashier

import "errors"

var (
	ErrSubscriptionLookup              = errors.New("subscription not found on paystack")
	ErrSubscriptionNotFoundForCustomer = errors.New("subscription not found among customer subscriptions")
	ErrInvalidCustomerState            = errors.New("billable is not a paystack customer yet")
	ErrSubscriptionCreate              = errors.New("failed to create paystack subscription")
	ErrCustomerCreate                  = errors.New("failed to create paystack customer")
	ErrChargeFailed                    = errors.New("paystack was unable to perform a charge")
	ErrSubscriptionNotFound            = errors.New("subscription not found")
	ErrCustomerNotFound                = errors.New("customer not found")
	ErrCustomerAlreadyExists           = errors.New("customer already exists for owner")
	ErrSubscriptionAlreadyExists       = errors.New("subscription already exists for paystack code")
	ErrInvoiceNotFound                 = errors.New("invoice not found")
	ErrMissingDueDate                  = errors.New("no due date provided")
	ErrInvalidDueDate                  = errors.New("invalid due date")
	ErrPaymentMethodNotReusable        = errors.New("payment method is no longer reusable")
	ErrUnknownCurrency                 = errors.New("unable to guess symbol for currency")
	ErrInvalidPayload                  = errors.New("invalid webhook payload")
	ErrBillableNotResolved             = errors.New("billable could not be resolved")
	ErrFailedEventNotFound             = errors.New("failed webhook event not found")
	ErrNoWebhookHandler                = errors.New("no webhook handler registered for event")
	ErrLockFailed                      = errors.New("failed to acquire subscription lock")
	ErrWebhookHandlerPanic             = errors.New("webhook handler panicked")
	ErrInvalidMetadata                 = errors.New("invalid charge metadata")
)
