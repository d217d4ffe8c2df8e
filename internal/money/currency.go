package money

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when an event or expense carries no currency code.
const DefaultCurrency = "JPY"

// Currency describes how amounts in one currency are displayed.
type Currency struct {
	Code     string
	Symbol   string
	Locale   language.Tag
	Decimals int
}

var currencies = map[string]Currency{
	"JPY": {Code: "JPY", Symbol: "¥", Locale: language.Japanese, Decimals: 0},
	"USD": {Code: "USD", Symbol: "$", Locale: language.AmericanEnglish, Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", Locale: language.German, Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", Locale: language.BritishEnglish, Decimals: 2},
	"CNY": {Code: "CNY", Symbol: "¥", Locale: language.SimplifiedChinese, Decimals: 2},
	"KRW": {Code: "KRW", Symbol: "₩", Locale: language.Korean, Decimals: 0},
}

// Lookup returns the display settings for a currency code (case-insensitive).
func Lookup(code string) (Currency, bool) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Codes returns the supported currency codes in alphabetical order.
func Codes() []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Normalize upper-cases a currency code and substitutes DefaultCurrency for
// an empty one. Unknown codes are returned as-is.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// Format renders a minor-unit amount for display in the given currency.
// Unknown codes fall back to the default currency's layout.
func Format(minor int64, code string) string {
	c, ok := Lookup(code)
	if !ok {
		c = currencies[DefaultCurrency]
	}

	major := ToDecimal(minor).Round(int32(c.Decimals))
	sign := ""
	if major.IsNegative() {
		sign = "-"
		major = major.Neg()
	}

	p := message.NewPrinter(c.Locale)
	return sign + c.Symbol + p.Sprint(number.Decimal(major.InexactFloat64(), number.Scale(c.Decimals)))
}
