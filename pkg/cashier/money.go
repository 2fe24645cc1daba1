package cashier

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"GHS": "GH₵",
	"ZAR": "R",
	"KES": "KSh",
	"USD": "$",
	"AUD": "$",
	"CAD": "$",
	"EUR": "€",
	"GBP": "£",
}

// GuessCurrencySymbol maps an ISO currency code to its display symbol.
func GuessCurrencySymbol(currency string) (string, error) {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		return "", errors.Join(ErrUnknownCurrency, fmt.Errorf("currency %q", currency))
	}
	return symbol, nil
}

// AmountFormatter renders an amount in the smallest currency unit (kobo, pesewas, cents).
type AmountFormatter func(amount int64) string

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount in the smallest currency unit as a
// symbol-prefixed decimal with thousands grouping, e.g. ₦1,234.56.
func FormatAmount(amount int64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + symbol + printer.Sprintf("%d", amount/100) + fmt.Sprintf(".%02d", amount%100)
}
