package binance

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// WSClient manages WebSocket connections for Binance public streams.
type WSClient struct {
	subscriptions map[string]*Subscription
	mu            sync.RWMutex
	baseWsURL     string
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(config *WSConfig) *WSClient {
	if config.BaseWsURL == "" {
		config.BaseWsURL = MainnetWSBaseUrl
	}
	return &WSClient{
		subscriptions: make(map[string]*Subscription),
		baseWsURL:     config.BaseWsURL,
	}
}

// SubscribeTrade subscribes to raw trade WebSocket stream
func (c *WSClient) SubscribeTrade(symbol string, options TradeSubscriptionOptions) (func(), error) {
	streamPath := fmt.Sprintf("/%s@trade", symbol)
	subscriptionID := fmt.Sprintf("trade_%s", symbol)
	return c.subscribe(subscriptionID, streamPath, options)
}

// SubscribeDepthUpdate subscribes to the differential depth WebSocket stream.
// updateSpeed of "100ms" requests the faster cadence; anything else uses the
// default 1000ms cadence.
func (c *WSClient) SubscribeDepthUpdate(symbol string, updateSpeed string, options DepthUpdateSubscriptionOptions) (func(), error) {
	var streamPath, subscriptionID string
	if updateSpeed == "100ms" {
		streamPath = fmt.Sprintf("/%s@depth@100ms", symbol)
		subscriptionID = fmt.Sprintf("depthUpdate_%s_100ms", symbol)
	} else {
		streamPath = fmt.Sprintf("/%s@depth", symbol)
		subscriptionID = fmt.Sprintf("depthUpdate_%s", symbol)
	}
	return c.subscribe(subscriptionID, streamPath, options)
}

// subscribe is the common subscription logic for all stream types
func (c *WSClient) subscribe(subscriptionID, streamPath string, options interface{}) (func(), error) {
	c.mu.Lock()
	if _, exists := c.subscriptions[subscriptionID]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("already subscribed to %s stream", subscriptionID)
	}

	conn := NewBinanceWSConn(c.baseWsURL, streamPath)
	subscription := &Subscription{
		id:      subscriptionID,
		conn:    conn,
		options: options,
		state:   StateConnecting,
	}

	conn.SetOnMessage(func(data []byte) {
		c.handleMessage(subscription, data)
	})
	conn.OnReconnected = func() {
		c.callOnReconnect(options)
	}

	c.subscriptions[subscriptionID] = subscription
	c.mu.Unlock()

	if err := conn.Connect(); err != nil {
		c.mu.Lock()
		delete(c.subscriptions, subscriptionID)
		c.mu.Unlock()
		c.callOnError(options, err)
		return nil, fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	c.mu.Lock()
	subscription.state = StateConnected
	c.mu.Unlock()

	c.callOnConnect(options)

	return func() { c.unsubscribe(subscriptionID) }, nil
}

// handleMessage processes incoming WebSocket messages based on event type
func (c *WSClient) handleMessage(subscription *Subscription, data []byte) {
	var rawData map[string]interface{}
	if err := json.Unmarshal(data, &rawData); err != nil {
		log.Printf("[WSClient] Failed to parse JSON: %v", err)
		c.callOnError(subscription.options, fmt.Errorf("failed to parse JSON: %w", err))
		return
	}

	eventTypeRaw, hasEventType := rawData["e"]
	if !hasEventType {
		log.Printf("[WSClient] Unknown message format: no event type field")
		return
	}

	eventType, ok := eventTypeRaw.(string)
	if !ok {
		log.Printf("[WSClient] Event type 'e' is not a string: %T %v", eventTypeRaw, eventTypeRaw)
		return
	}

	switch eventType {
	case "trade":
		c.handleTradeMessage(subscription, data)
	case "depthUpdate":
		c.handleDepthUpdateMessage(subscription, data)
	default:
		log.Printf("[WSClient] Unknown event type: %s", eventType)
	}
}

func (c *WSClient) handleTradeMessage(subscription *Subscription, data []byte) {
	var event WSTradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[WSClient] Failed to unmarshal trade data: %v", err)
		c.callOnError(subscription.options, fmt.Errorf("failed to unmarshal trade data: %w", err))
		return
	}
	if tradeOptions, ok := subscription.options.(TradeSubscriptionOptions); ok && tradeOptions.OnTrade != nil {
		tradeOptions.OnTrade(event)
	}
}

func (c *WSClient) handleDepthUpdateMessage(subscription *Subscription, data []byte) {
	var event WSDepthUpdateEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[WSClient] Failed to unmarshal depth update data: %v", err)
		c.callOnError(subscription.options, fmt.Errorf("failed to unmarshal depth update data: %w", err))
		return
	}
	if depthUpdateOptions, ok := subscription.options.(DepthUpdateSubscriptionOptions); ok && depthUpdateOptions.OnDepthUpdate != nil {
		depthUpdateOptions.OnDepthUpdate(event)
	}
}

func (c *WSClient) callOnConnect(options interface{}) {
	switch opts := options.(type) {
	case TradeSubscriptionOptions:
		if opts.OnConnect != nil {
			opts.OnConnect()
		}
	case DepthUpdateSubscriptionOptions:
		if opts.OnConnect != nil {
			opts.OnConnect()
		}
	}
}

func (c *WSClient) callOnReconnect(options interface{}) {
	switch opts := options.(type) {
	case TradeSubscriptionOptions:
		if opts.OnReconnect != nil {
			opts.OnReconnect()
		}
	case DepthUpdateSubscriptionOptions:
		if opts.OnReconnect != nil {
			opts.OnReconnect()
		}
	}
}

func (c *WSClient) callOnError(options interface{}, err error) {
	switch opts := options.(type) {
	case TradeSubscriptionOptions:
		if opts.OnError != nil {
			opts.OnError(err)
		}
	case DepthUpdateSubscriptionOptions:
		if opts.OnError != nil {
			opts.OnError(err)
		}
	}
}

func (c *WSClient) callOnDisconnect(options interface{}) {
	switch opts := options.(type) {
	case TradeSubscriptionOptions:
		if opts.OnDisconnect != nil {
			opts.OnDisconnect()
		}
	case DepthUpdateSubscriptionOptions:
		if opts.OnDisconnect != nil {
			opts.OnDisconnect()
		}
	}
}

// unsubscribe removes and disconnects a subscription
func (c *WSClient) unsubscribe(subscriptionID string) {
	c.mu.Lock()
	subscription, exists := c.subscriptions[subscriptionID]
	if !exists {
		c.mu.Unlock()
		return
	}
	delete(c.subscriptions, subscriptionID)
	c.mu.Unlock()

	if subscription.conn != nil {
		subscription.conn.Disconnect()
	}
	c.callOnDisconnect(subscription.options)
}

// Close closes all active subscriptions
func (c *WSClient) Close() {
	c.mu.Lock()
	subscriptions := make([]*Subscription, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		subscriptions = append(subscriptions, sub)
	}
	c.subscriptions = make(map[string]*Subscription)
	c.mu.Unlock()

	for _, sub := range subscriptions {
		if sub.conn != nil {
			sub.conn.Disconnect()
		}
		c.callOnDisconnect(sub.options)
	}
}
