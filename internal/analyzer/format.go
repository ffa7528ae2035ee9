package analyzer

import (
	"github.com/shopspring/decimal"
)

// formatAmount renders a raw u64 amount with thousands separators
func formatAmount(amount uint64) string {
	s := decimal.NewFromUint64(amount).String()
	n := len(s)
	if n <= 3 {
		return s
	}
	out := make([]byte, 0, n+n/3)
	lead := n % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// formatBps renders basis points as a percentage string, 10000 bps = 100%
func formatBps(bps uint64) string {
	pct := decimal.NewFromUint64(bps).Div(decimal.NewFromInt(100))
	return pct.StringFixed(2) + "%"
}
