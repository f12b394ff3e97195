package adapter

import (
	"fmt"

	"github.com/BullionBear/sequex/internal/model/sqx"
	"github.com/BullionBear/sequex/internal/orderbook"
)

// TradeCallback receives a normalized trade print.
type TradeCallback func(trade sqx.Trade) error

// TradeAdapter subscribes to an exchange's trade feed and normalizes it
// into sqx.Trade before invoking the callback.
type TradeAdapter interface {
	Subscribe(symbol sqx.Symbol, instrumentType sqx.InstrumentType, callback TradeCallback) (func(), error)
}

// DepthCallback receives a normalized order book snapshot or incremental
// diff, tagged by Kind.
type DepthCallback func(event sqx.DepthEvent) error

// DepthAdapter bootstraps and maintains a local order book for an exchange,
// emitting normalized snapshot/diff events to the callback as it receives
// them from the exchange's REST and websocket collaborators. cfg tunes the
// order book core itself (max_depth, gap_warn, repair_crossed).
type DepthAdapter interface {
	Subscribe(symbol sqx.Symbol, instrumentType sqx.InstrumentType, cfg orderbook.Config, callback DepthCallback) (func(), error)
}

var (
	tradeAdapters = make(map[sqx.Exchange]TradeAdapter)
	depthAdapters = make(map[sqx.Exchange]DepthAdapter)
)

// RegisterTradeAdapter makes a TradeAdapter available for exchange via CreateTradeAdapter.
func RegisterTradeAdapter(exchange sqx.Exchange, adapter TradeAdapter) {
	tradeAdapters[exchange] = adapter
}

// CreateTradeAdapter looks up a previously registered TradeAdapter.
func CreateTradeAdapter(exchange sqx.Exchange) (TradeAdapter, error) {
	adapter, ok := tradeAdapters[exchange]
	if !ok {
		return nil, fmt.Errorf("trade adapter not found for exchange: %s", exchange)
	}
	return adapter, nil
}

// RegisterDepthAdapter makes a DepthAdapter available for exchange via CreateDepthAdapter.
func RegisterDepthAdapter(exchange sqx.Exchange, adapter DepthAdapter) {
	depthAdapters[exchange] = adapter
}

// CreateDepthAdapter looks up a previously registered DepthAdapter.
func CreateDepthAdapter(exchange sqx.Exchange) (DepthAdapter, error) {
	adapter, ok := depthAdapters[exchange]
	if !ok {
		return nil, fmt.Errorf("depth adapter not found for exchange: %s", exchange)
	}
	return adapter, nil
}
