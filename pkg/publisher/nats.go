package publisher

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

const flushTimeout = 5 * time.Second

// NATSPublisher sends the broadcast envelope to a NATS subject. It keeps no
// snapshot.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	key     string
}

func NewNATSPublisher(conn *nats.Conn, subject string, key string) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		key:     key,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, cycle string, notifications []poikkeusinfo.DisruptionNotification) error {
	data, err := encodeBroadcast(p.key, cycle, notifications)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Poikkeusinfo-Cycle", cycle)

	if err := p.conn.PublishMsg(msg); err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); ok {
		return p.conn.FlushWithContext(ctx)
	}
	return p.conn.FlushTimeout(flushTimeout)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
