package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money normalizes a server-provided monetary string for display. The backend
// stores contract totals and line-item values as free-form text extracted from
// documents, so parsing can fail; an unparsable value keeps its raw form and
// is shown as received. Money never performs arithmetic; the backend is the
// sole source of truth for amounts.
type Money struct {
	raw    string
	amount decimal.Decimal
	ok     bool
}

// ParseMoney accepts common Brazilian and plain formats: "R$ 1.234,56",
// "1.234,56", "1234.56", "1234".
func ParseMoney(raw string) Money {
	trimmed := strings.TrimSpace(raw)
	normalized := strings.TrimSpace(strings.TrimPrefix(trimmed, "R$"))
	if normalized == "" {
		return Money{raw: raw}
	}

	if strings.Contains(normalized, ",") {
		// Brazilian notation: dots group thousands, comma separates cents.
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return Money{raw: raw}
	}
	return Money{raw: raw, amount: amount, ok: true}
}

// IsZero reports whether the value parsed and equals zero.
func (m Money) IsZero() bool {
	return m.ok && m.amount.IsZero()
}

// Display renders "R$ 1.234,56" for parsed values and the raw input otherwise.
func (m Money) Display() string {
	if !m.ok {
		return strings.TrimSpace(m.raw)
	}
	fixed := m.amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	out := "R$ " + grouped + "," + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// Raw returns the value exactly as the server sent it.
func (m Money) Raw() string {
	return m.raw
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
