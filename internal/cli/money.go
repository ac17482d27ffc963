package cli

import (
	"fmt"
	"strings"
)

// FormatMoney renders an amount as a dollar figure with thousands
// separators, e.g. -1234.5 -> "-$1,234.50".
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(whole, '.')
	intPart, fracPart := whole[:dot], whole[dot:]

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + "$" + b.String() + fracPart
}

// ColorMoney renders an amount styled by its sign: income green,
// expense red.
func ColorMoney(amount float64) string {
	if amount < 0 {
		return ExpenseStyle.Render(FormatMoney(amount))
	}
	return IncomeStyle.Render(FormatMoney(amount))
}
