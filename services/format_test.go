package services

import "testing"

func TestFormatCurrency_PortugueseEuro(t *testing.T) {
	cur := FormatFor(Settings{Currency: "EUR", Locale: "pt-PT", DecimalPlaces: 2})

	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0,00 €"},
		{"small", 5, "5,00 €"},
		{"with decimals", 42.50, "42,50 €"},
		{"hundreds", 999.99, "999,99 €"},
		{"thousands", 1234.56, "1 234,56 €"},
		{"hundred thousands", 123456.78, "123 456,78 €"},
		{"millions", 1234567.89, "1 234 567,89 €"},
		{"negative", -1234.56, "-1 234,56 €"},
		{"exact thousand", 1000, "1 000,00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input, cur)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatCurrency_AnglophoneDollar(t *testing.T) {
	cur := FormatFor(Settings{Currency: "USD", Locale: "en-US", DecimalPlaces: 2})

	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -100, "-$100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input, cur)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		name        string
		settings    Settings
		symbol      string
		symbolAfter bool
		decimalSep  string
	}{
		{"portuguese euro", Settings{Currency: "EUR", Locale: "pt-PT"}, "€", true, ","},
		{"french euro", Settings{Currency: "EUR", Locale: "fr"}, "€", true, ","},
		{"british pound", Settings{Currency: "GBP", Locale: "en-GB"}, "£", false, "."},
		{"brazilian real", Settings{Currency: "BRL", Locale: "pt-BR"}, "R$", true, ","},
		{"unknown currency keeps code", Settings{Currency: "CHF", Locale: "en"}, "CHF", false, "."},
		{"empty locale defaults anglophone", Settings{Currency: "USD"}, "$", false, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFor(tt.settings)
			if got.Symbol != tt.symbol {
				t.Errorf("Symbol = %q, want %q", got.Symbol, tt.symbol)
			}
			if got.SymbolAfter != tt.symbolAfter {
				t.Errorf("SymbolAfter = %v, want %v", got.SymbolAfter, tt.symbolAfter)
			}
			if got.DecimalSep != tt.decimalSep {
				t.Errorf("DecimalSep = %q, want %q", got.DecimalSep, tt.decimalSep)
			}
		})
	}
}

func TestFormatFor_DecimalPlaces(t *testing.T) {
	cur := FormatFor(Settings{Currency: "EUR", Locale: "pt-PT", DecimalPlaces: 0})
	if cur.DecimalPlaces != 2 {
		t.Errorf("zero decimal places should fall back to 2, got %d", cur.DecimalPlaces)
	}

	cur = FormatFor(Settings{Currency: "EUR", Locale: "pt-PT", DecimalPlaces: 3})
	if got := FormatCurrency(1.5, cur); got != "1,500 €" {
		t.Errorf("three decimal places = %q, want \"1,500 €\"", got)
	}
}
