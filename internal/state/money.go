package state

import (
	"github.com/shopspring/decimal"

	"github.com/five82/storefront/internal/api"
)

// Price converts a wire price into a decimal.
func Price(p api.Product) decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

// LineTotal is price times quantity for one basket line.
func LineTotal(item api.BasketItem) decimal.Decimal {
	return Price(item.Product).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
