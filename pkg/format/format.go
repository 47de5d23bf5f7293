// Package format renders prices and market figures for display in the
// active currency. Conversions read the rate manager's last-known rate
// synchronously; the staleness bound is accepted by design.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"coindeck/pkg/rates"
)

var printers = map[rates.Currency]*message.Printer{
	rates.USD: message.NewPrinter(language.English),
	rates.EUR: message.NewPrinter(language.Spanish),
}

var symbols = map[rates.Currency]string{
	rates.USD: "$",
	rates.EUR: "€",
}

// Price renders a USD-quoted price in the given display currency. Prices
// under one unit keep up to six decimals so small-cap quotes stay legible.
func Price(price float64, currency rates.Currency, m *rates.Manager) string {
	converted := m.Convert(price, rates.USD, currency)
	printer := printerFor(currency)
	if price < 1 {
		return symbols[currency] + printer.Sprintf("%.6f", converted)
	}
	return symbols[currency] + printer.Sprintf("%.2f", converted)
}

// Percent renders a signed percentage, e.g. "+2.50%".
func Percent(pct float64) string {
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, pct)
}

// Amount renders a plain quantity with up to the given decimals.
func Amount(currency rates.Currency, value float64, decimals int) string {
	return printerFor(currency).Sprintf("%.*f", decimals, value)
}

// MarketCap abbreviates a large USD figure into the display currency, e.g.
// "1.33T USD".
func MarketCap(cap float64, currency rates.Currency, m *rates.Manager) string {
	converted := m.Convert(cap, rates.USD, currency)
	switch {
	case converted >= 1e12:
		return fmt.Sprintf("%.2fT %s", converted/1e12, currency)
	case converted >= 1e9:
		return fmt.Sprintf("%.2fB %s", converted/1e9, currency)
	case converted >= 1e6:
		return fmt.Sprintf("%.2fM %s", converted/1e6, currency)
	}
	return Price(cap, currency, m)
}

// Date renders a millisecond timestamp as a short chart label.
func Date(tsMillis int64) string {
	return time.UnixMilli(tsMillis).UTC().Format("Jan 2 15:04")
}

// DateShort renders a millisecond timestamp as a day label.
func DateShort(tsMillis int64) string {
	return time.UnixMilli(tsMillis).UTC().Format("Jan 2")
}

func printerFor(currency rates.Currency) *message.Printer {
	if printer, ok := printers[currency]; ok {
		return printer
	}
	return printers[rates.USD]
}
