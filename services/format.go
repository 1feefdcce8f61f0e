package services

import (
	"strconv"
	"strings"
)

// CurrencyFormat describes how monetary values are rendered for a project.
type CurrencyFormat struct {
	Symbol        string
	DecimalPlaces int
	DecimalSep    string
	GroupSep      string
	// SymbolAfter places the symbol after the amount ("1 234,56 €")
	// instead of before it ("€1,234.56").
	SymbolAfter bool
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"BRL": "R$",
	"INR": "₹",
}

// FormatFor derives the currency format from a project's settings. European
// locales group with spaces, use comma decimals and put the symbol after the
// amount; everything else falls back to the anglophone convention.
func FormatFor(s Settings) CurrencyFormat {
	symbol, ok := currencySymbols[strings.ToUpper(s.Currency)]
	if !ok {
		symbol = s.Currency
	}
	places := s.DecimalPlaces
	if places <= 0 {
		places = 2
	}

	lang := strings.ToLower(s.Locale)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	switch lang {
	case "pt", "fr", "es", "it", "de", "nl":
		return CurrencyFormat{
			Symbol:        symbol,
			DecimalPlaces: places,
			DecimalSep:    ",",
			GroupSep:      " ",
			SymbolAfter:   true,
		}
	default:
		return CurrencyFormat{
			Symbol:        symbol,
			DecimalPlaces: places,
			DecimalSep:    ".",
			GroupSep:      ",",
		}
	}
}

// FormatCurrency renders a monetary value according to the given format,
// e.g. 1234.56 -> "1 234,56 €" for pt-PT/EUR.
func FormatCurrency(value float64, f CurrencyFormat) string {
	negative := value < 0
	if negative {
		value = -value
	}

	raw := strconv.FormatFloat(value, 'f', f.DecimalPlaces, 64)
	intPart := raw
	decPart := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		intPart, decPart = raw[:i], raw[i+1:]
	}

	grouped := groupThousands(intPart, f.GroupSep)

	var sb strings.Builder
	if negative {
		sb.WriteString("-")
	}
	if !f.SymbolAfter {
		sb.WriteString(f.Symbol)
	}
	sb.WriteString(grouped)
	if decPart != "" {
		sb.WriteString(f.DecimalSep)
		sb.WriteString(decPart)
	}
	if f.SymbolAfter {
		sb.WriteString(" ")
		sb.WriteString(f.Symbol)
	}
	return sb.String()
}

// groupThousands inserts sep between groups of three digits, counting from
// the right.
func groupThousands(s, sep string) string {
	n := len(s)
	if n <= 3 || sep == "" {
		return s
	}
	var sb strings.Builder
	head := n % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
