package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var egp = accounting.Accounting{Symbol: "EGP ", Precision: 2, Thousand: ",", Decimal: "."}

// Money renders an amount as EGP with 2-digit precision, round-half-up.
func Money(amount decimal.Decimal) string {
	return egp.FormatMoneyDecimal(amount.Round(2))
}
