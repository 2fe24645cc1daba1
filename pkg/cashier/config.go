package cashier

import "strings"

// Config holds the billing settings shared by every Cashier operation.
// Fields carry env tags so the struct can be loaded with pkg/config.
type Config struct {
	Currency         string `env:"CASHIER_CURRENCY" envDefault:"NGN"`
	CurrencySymbol   string `env:"CASHIER_CURRENCY_SYMBOL"`
	WebhookPath      string `env:"CASHIER_WEBHOOK_PATH" envDefault:"/paystack"`
	WebhookSecret    string `env:"CASHIER_WEBHOOK_SECRET"`
	SubscriptionType string `env:"CASHIER_SUBSCRIPTION_TYPE" envDefault:"default"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Currency:         "NGN",
		WebhookPath:      "/paystack",
		SubscriptionType: DefaultSubscriptionType,
	}
}

func (c Config) normalize() (Config, error) {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = "NGN"
	}
	if c.WebhookPath == "" {
		c.WebhookPath = "/paystack"
	}
	if c.SubscriptionType == "" {
		c.SubscriptionType = DefaultSubscriptionType
	}
	if c.CurrencySymbol == "" {
		symbol, err := GuessCurrencySymbol(c.Currency)
		if err != nil {
			return c, err
		}
		c.CurrencySymbol = symbol
	}
	return c, nil
}
