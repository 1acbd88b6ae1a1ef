package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money renders an amount as a JSON number without float rounding.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
