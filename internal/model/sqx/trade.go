package sqx

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

type Trade struct {
	Id             int64
	Symbol         Symbol
	Exchange       Exchange
	InstrumentType InstrumentType
	TakerSide      Side
	Price          decimal.Decimal
	Quantity       decimal.Decimal
	Timestamp      int64
}

// IdStr renders the trade id as a string, suitable for a NATS dedup header.
func (t *Trade) IdStr() string {
	return strconv.FormatInt(t.Id, 10)
}

// Marshal serializes the trade to its wire form.
func (t *Trade) Marshal() ([]byte, error) {
	return json.Marshal(t)
}
