package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupiah renders integer amount with thousand separators.
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sRp%s", sign, formatThousand(amount))
}

// FormatSalaryRange renders a job's salary band. Zero bounds are open.
func FormatSalaryRange(min, max int64) string {
	switch {
	case min <= 0 && max <= 0:
		return "negotiable"
	case max <= 0 || max == min:
		return FormatRupiah(min)
	case min <= 0:
		return "up to " + FormatRupiah(max)
	default:
		return FormatRupiah(min) + " - " + FormatRupiah(max)
	}
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
