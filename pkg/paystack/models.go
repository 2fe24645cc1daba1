package paystack

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Customer is a Paystack customer record.
type Customer struct {
	ID             int64           `json:"id"`
	CustomerCode   string          `json:"customer_code"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Phone          string          `json:"phone"`
	Authorizations []Authorization `json:"authorizations"`
}

// Authorization is a reusable payment instrument saved on a customer.
type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Bin               string `json:"bin"`
	Last4             string `json:"last4"`
	ExpMonth          string `json:"exp_month"`
	ExpYear           string `json:"exp_year"`
	Channel           string `json:"channel"`
	CardType          string `json:"card_type"`
	Bank              string `json:"bank"`
	CountryCode       string `json:"country_code"`
	Brand             string `json:"brand"`
	Reusable          bool   `json:"reusable"`
	Signature         string `json:"signature"`
}

// Plan is a Paystack billing plan.
type Plan struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PlanCode string `json:"plan_code"`
	Amount   int64  `json:"amount"`
	Interval string `json:"interval"`
	Currency string `json:"currency"`
}

// Subscription is a subscription as returned by the fetch and list endpoints
// and embedded in subscription webhook events.
type Subscription struct {
	ID               int64      `json:"id"`
	SubscriptionCode string     `json:"subscription_code"`
	EmailToken       string     `json:"email_token"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	CronExpression   string     `json:"cron_expression"`
	NextPaymentDate  *time.Time `json:"next_payment_date"`
	Plan             Plan       `json:"plan"`
	Customer         Customer   `json:"customer"`
}

// CreatedSubscription is the data returned by the create subscription endpoint.
// Unlike Subscription it references the customer and plan by numeric id.
type CreatedSubscription struct {
	ID               int64  `json:"id"`
	SubscriptionCode string `json:"subscription_code"`
	EmailToken       string `json:"email_token"`
	Status           string `json:"status"`
}

// Invoice is a Paystack payment request.
type Invoice struct {
	ID          int64       `json:"id"`
	RequestCode string      `json:"request_code"`
	Description string      `json:"description"`
	Amount      int64       `json:"amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
	Paid        bool        `json:"paid"`
	DueDate     *time.Time  `json:"due_date"`
	Customer    CustomerRef `json:"customer"`
}

// CustomerRef is a customer reference that Paystack renders either as a bare
// numeric id or as an embedded customer object.
type CustomerRef struct {
	ID           int64
	CustomerCode string
	Email        string
}

func (r *CustomerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] != '{' {
		id, err := strconv.ParseInt(string(bytes.Trim(data, `"`)), 10, 64)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	}

	var obj struct {
		ID           int64  `json:"id"`
		CustomerCode string `json:"customer_code"`
		Email        string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	r.CustomerCode = obj.CustomerCode
	r.Email = obj.Email
	return nil
}

// ManageLink is the data returned by the subscription manage link endpoint.
type ManageLink struct {
	Link string `json:"link"`
}
