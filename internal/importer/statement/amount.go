package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses amounts such as "1.234,56", "-588,74 €" or "10,00".
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	clean = strings.TrimSuffix(clean, "EUR")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}
