package pubsub

import (
	"github.com/BullionBear/sequex/internal/config"
	"github.com/BullionBear/sequex/pkg/logger"
	"github.com/nats-io/nats.go"
)

// PubManager fans a single publish out to every configured NATS connection.
type PubManager struct {
	publishers []*Publisher
}

func NewPubManager(connConfigs []*config.ConnectionConfig) (*PubManager, error) {
	publishers := make([]*Publisher, 0, len(connConfigs))
	for _, connConfig := range connConfigs {
		natsConn, err := nats.Connect(connConfig.ToNATSURL())
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to connect to NATS")
			return nil, err
		}
		publisher, err := NewPublisher(natsConn, connConfig.GetParam("stream", ""), connConfig.GetParam("subject", ""))
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to create publisher")
			return nil, err
		}
		publishers = append(publishers, publisher)
	}
	return &PubManager{publishers: publishers}, nil
}

func (p *PubManager) Publish(data []byte, headers map[string]string) error {
	for _, publisher := range p.publishers {
		if err := publisher.Publish(data, headers); err != nil {
			return err
		}
	}
	return nil
}

func (p *PubManager) Close() {
	for _, publisher := range p.publishers {
		publisher.Close()
	}
}
