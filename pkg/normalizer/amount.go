package normalizer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBRL converts a Brazilian-locale currency string to a float.
// Accepts forms like "R$ 1.234,56", "-R$ 300,00" and "R$ -300,00": the
// currency marker is stripped, a minus anywhere in the token counts as the
// sign, thousands dots are removed and the decimal comma becomes a point.
func ParseBRL(raw string) (float64, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(raw, "R$", ""))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := strings.Contains(clean, "-")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, "-", ""))

	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	if negative {
		value = -value
	}
	return value, nil
}

// FormatBRL renders a float back into the Brazilian format parsed by
// ParseBRL, with two decimal places and thousands separators.
func FormatBRL(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + decPart
	if negative {
		out = "-" + out
	}
	return out
}
