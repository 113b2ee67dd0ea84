package models

import (
	"github.com/dustin/go-humanize"
)

// FormatPrice renders cents as a euro amount, e.g. 125000 -> "€1,250.00"
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "€" + humanize.FormatFloat("#,###.##", float64(cents)/100)
}
