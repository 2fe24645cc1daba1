package paystack

import "time"

// DefaultBaseURL is the production Paystack API endpoint.
const DefaultBaseURL = "https://api.paystack.co"

// Config holds credentials and transport settings for the Paystack API.
type Config struct {
	SecretKey     string        `env:"PAYSTACK_SECRET_KEY,required"`
	PublicKey     string        `env:"PAYSTACK_PUBLIC_KEY"`
	BaseURL       string        `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	Timeout       time.Duration `env:"PAYSTACK_TIMEOUT" envDefault:"20s"`
	MerchantEmail string        `env:"PAYSTACK_MERCHANT_EMAIL"`
}
