package binance

// WSTradeEvent represents the complete raw trade WebSocket event
type WSTradeEvent struct {
	EventType    string `json:"e"` // Event type
	EventTime    int64  `json:"E"` // Event time
	Symbol       string `json:"s"` // Symbol
	TradeId      int64  `json:"t"` // Trade ID
	Price        string `json:"p"` // Price
	Quantity     string `json:"q"` // Quantity
	TradeTime    int64  `json:"T"` // Trade time
	IsBuyerMaker bool   `json:"m"` // Is the buyer the market maker?
	Ignore       bool   `json:"M"` // Ignore
}

// WSTrade represents raw trade data (alias for event for consistency with other patterns)
type WSTrade = WSTradeEvent

// PriceLevel represents a single price level [price, quantity]
type PriceLevel [2]string

// WSDepthUpdateEvent represents the complete differential depth WebSocket event
type WSDepthUpdateEvent struct {
	EventType     string       `json:"e"` // Event type ("depthUpdate")
	EventTime     int64        `json:"E"` // Event time
	Symbol        string       `json:"s"` // Symbol
	FirstUpdateId int64        `json:"U"` // First update ID in event
	FinalUpdateId int64        `json:"u"` // Final update ID in event
	BidUpdates    []PriceLevel `json:"b"` // Bids to be updated [price, quantity]
	AskUpdates    []PriceLevel `json:"a"` // Asks to be updated [price, quantity]
}

// WSDepthUpdate represents differential depth data (alias for event for consistency with other patterns)
type WSDepthUpdate = WSDepthUpdateEvent

// TradeSubscriptionOptions defines the callback functions for raw trade subscription
type TradeSubscriptionOptions struct {
	OnConnect    func()              // Called when connection is established
	OnReconnect  func()              // Called when connection is reestablished
	OnError      func(err error)     // Called when an error occurs
	OnTrade      func(trade WSTrade) // Called when trade data is received
	OnDisconnect func()              // Called when connection is disconnected
}

// DepthUpdateSubscriptionOptions defines the callback functions for differential depth subscription
type DepthUpdateSubscriptionOptions struct {
	OnConnect     func()                     // Called when connection is established
	OnReconnect   func()                     // Called when connection is reestablished
	OnError       func(err error)            // Called when an error occurs
	OnDepthUpdate func(update WSDepthUpdate) // Called when depth update data is received
	OnDisconnect  func()                     // Called when connection is disconnected
}

// ConnectionState represents the current state of a WebSocket subscription
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

// Subscription represents an active WebSocket subscription
type Subscription struct {
	id      string
	conn    *BinanceWSConn
	options interface{} // TradeSubscriptionOptions or DepthUpdateSubscriptionOptions
	state   ConnectionState
}
