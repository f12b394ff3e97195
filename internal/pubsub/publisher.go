package pubsub

import "github.com/nats-io/nats.go"

// Publisher publishes to one NATS JetStream subject.
type Publisher struct {
	conn       *nats.Conn
	js         nats.JetStreamContext
	streamName string
	subject    string
}

func NewPublisher(conn *nats.Conn, streamName string, subject string) (*Publisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js, streamName: streamName, subject: subject}, nil
}

// Publish sends data to the subject, attaching headers (e.g. Nats-Msg-Id
// for JetStream dedup) when provided.
func (p *Publisher) Publish(data []byte, headers map[string]string) error {
	msg := &nats.Msg{Subject: p.subject, Data: data}
	if len(headers) > 0 {
		msg.Header = nats.Header{}
		for k, v := range headers {
			msg.Header.Set(k, v)
		}
	}
	_, err := p.js.PublishMsg(msg)
	return err
}

func (p *Publisher) Close() {
	p.conn.Close()
}
