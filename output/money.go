package output

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var plainBRL = money.NewFormatter(2, ",", ".", "", "1")

// FormatBRL renders an amount as Brazilian currency, e.g. "R$1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	return money.New(centavos(amount), money.BRL).Display()
}

// FormatAmountBR renders an amount the way it is typed in a Brazilian
// spreadsheet, e.g. "1.234,56".
func FormatAmountBR(amount decimal.Decimal) string {
	return plainBRL.Format(centavos(amount))
}

func centavos(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
