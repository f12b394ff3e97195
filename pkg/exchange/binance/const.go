package binance

// Base URLs
const (
	BaseURLSpot        = "https://api.binance.com"
	BaseURLSpotTestnet = "https://testnet.binance.vision"
)

// REST endpoints used by the market-data surface of the client.
const (
	EndpointPing  = "/api/v3/ping"
	EndpointDepth = "/api/v3/depth"
)

// WebSocket base URLs
const (
	WSBaseURL        = "wss://stream.binance.com:9443"
	WSBaseURLTestnet = "wss://testnet.binance.vision"
)
