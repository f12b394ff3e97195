package depth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BullionBear/sequex/internal/adapter"
	"github.com/BullionBear/sequex/internal/model/sqx"
	"github.com/BullionBear/sequex/internal/orderbook"
	"github.com/BullionBear/sequex/pkg/exchange/binance"
	"github.com/BullionBear/sequex/pkg/logger"
	"github.com/shopspring/decimal"
)

func init() {
	binanceDepthAdapter := NewBinanceDepthAdapter()
	logger.Log.Info().Msg("Registering Binance depth adapter")
	adapter.RegisterDepthAdapter(sqx.ExchangeBinance, binanceDepthAdapter)
}

// BinanceDepthAdapter drives a local order book from Binance's REST depth
// snapshot and websocket diff-depth stream. It is the sole mutator of the
// book it owns, so it serializes the websocket callback goroutine and its
// own snapshot-fetch goroutine behind one mutex.
type BinanceDepthAdapter struct {
	client   *binance.Client
	wsClient *binance.WSClient
}

func NewBinanceDepthAdapter() *BinanceDepthAdapter {
	return &BinanceDepthAdapter{
		client:   binance.NewClient(binance.DefaultConfig()),
		wsClient: binance.NewWSClient(binance.NewMainnetWSConfig("", "")),
	}
}

func (a *BinanceDepthAdapter) Subscribe(symbol sqx.Symbol, instrumentType sqx.InstrumentType, cfg orderbook.Config, callback adapter.DepthCallback) (func(), error) {
	if instrumentType != sqx.InstrumentTypeSpot {
		return nil, fmt.Errorf("instrument type not supported: %s", instrumentType)
	}
	binanceSymbol := fmt.Sprintf("%s%s", symbol.Base, symbol.Quote)

	book := orderbook.New(binanceSymbol, cfg, *logger.Get())

	var mu sync.Mutex
	resyncRequested := make(chan struct{}, 1)
	book.OnResyncRequest = func() {
		select {
		case resyncRequested <- struct{}{}:
		default:
		}
	}

	fetchAndApplySnapshot := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snapshot, err := a.client.GetDepth(ctx, binanceSymbol, cfg.MaxDepth)
		if err != nil {
			logger.Log.Error().Err(err).Str("symbol", binanceSymbol).Msg("Failed to fetch depth snapshot")
			return
		}

		bids := toPriceLevels(snapshot.Bids)
		asks := toPriceLevels(snapshot.Asks)

		mu.Lock()
		err = book.ApplySnapshot(orderbook.Snapshot{
			LastUpdateID: snapshot.LastUpdateID,
			Bids:         bids,
			Asks:         asks,
		})
		mu.Unlock()
		if err != nil {
			logger.Log.Error().Err(err).Str("symbol", binanceSymbol).Msg("Snapshot rejected")
			return
		}

		emitSnapshot(callback, symbol, sqx.ExchangeBinance, snapshot.LastUpdateID, bids, asks)
	}

	unsubscribe, err := a.wsClient.SubscribeDepthUpdate(binanceSymbol, "", binance.DepthUpdateSubscriptionOptions{
		OnConnect: func() {
			go fetchAndApplySnapshot()
		},
		OnReconnect: func() {
			go fetchAndApplySnapshot()
		},
		OnDepthUpdate: func(update binance.WSDepthUpdate) {
			diff := orderbook.DepthDiff{
				FirstUpdateID: update.FirstUpdateId,
				FinalUpdateID: update.FinalUpdateId,
				Bids:          toPriceLevels(update.BidUpdates),
				Asks:          toPriceLevels(update.AskUpdates),
			}

			mu.Lock()
			err := book.ApplyDiff(diff)
			state := book.State()
			mu.Unlock()

			if err != nil {
				logger.Log.Debug().Err(err).Str("symbol", binanceSymbol).Msg("Depth diff not applied")
				return
			}
			if state != orderbook.StateLive && state != orderbook.StateSnapshotted {
				return
			}

			emitDiff(callback, symbol, sqx.ExchangeBinance, diff)
		},
		OnError: func(err error) {
			logger.Log.Error().Err(err).Str("symbol", binanceSymbol).Msg("Depth stream error")
		},
	})
	if err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-resyncRequested:
				fetchAndApplySnapshot()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		unsubscribe()
		mu.Lock()
		book.Reset()
		mu.Unlock()
	}, nil
}

func toPriceLevels(levels []binance.PriceLevel) []orderbook.PriceLevel {
	out := make([]orderbook.PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		price, err := decimal.NewFromString(lvl[0])
		if err != nil {
			continue
		}
		quantity, err := decimal.NewFromString(lvl[1])
		if err != nil {
			continue
		}
		out = append(out, orderbook.PriceLevel{Price: price, Quantity: quantity})
	}
	return out
}

func toDepthPriceLevels(levels []orderbook.PriceLevel) []sqx.DepthPriceLevel {
	out := make([]sqx.DepthPriceLevel, len(levels))
	for i, lvl := range levels {
		out[i] = sqx.DepthPriceLevel{Price: lvl.Price, Quantity: lvl.Quantity}
	}
	return out
}

func emitSnapshot(callback adapter.DepthCallback, symbol sqx.Symbol, exchange sqx.Exchange, lastUpdateID int64, bids, asks []orderbook.PriceLevel) {
	event := sqx.DepthEvent{
		Kind: sqx.DepthEventKindSnapshot,
		Snapshot: &sqx.DepthSnapshot{
			Symbol:       symbol,
			Exchange:     exchange,
			LastUpdateID: lastUpdateID,
			Bids:         toDepthPriceLevels(bids),
			Asks:         toDepthPriceLevels(asks),
		},
	}
	if err := callback(event); err != nil {
		logger.Log.Error().Err(err).Msg("Depth snapshot callback failed")
	}
}

func emitDiff(callback adapter.DepthCallback, symbol sqx.Symbol, exchange sqx.Exchange, diff orderbook.DepthDiff) {
	event := sqx.DepthEvent{
		Kind: sqx.DepthEventKindDiff,
		Diff: &sqx.DepthDiff{
			Symbol:        symbol,
			Exchange:      exchange,
			FirstUpdateID: diff.FirstUpdateID,
			FinalUpdateID: diff.FinalUpdateID,
			Bids:          toDepthPriceLevels(diff.Bids),
			Asks:          toDepthPriceLevels(diff.Asks),
			Timestamp:     time.Now().UnixMilli(),
		},
	}
	if err := callback(event); err != nil {
		logger.Log.Error().Err(err).Msg("Depth diff callback failed")
	}
}
