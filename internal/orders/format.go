package orders

import (
	"fmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatRupiah renders 24000 as "Rp 24.000".
func FormatRupiah(amount int64) string {
	return idr.Sprintf("Rp %d", amount)
}

// FormatRupiahShort renders compact amounts: "Rp 1.5jt", "Rp 24rb", "Rp 500".
func FormatRupiahShort(amount int64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("Rp %.1fjt", float64(amount)/1_000_000)
	case amount >= 1000:
		return fmt.Sprintf("Rp %.0frb", float64(amount)/1000)
	}
	return fmt.Sprintf("Rp %d", amount)
}
