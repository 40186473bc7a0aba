package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"git.gammaspectra.live/P2Pool/lsag/utils"
	"github.com/go-zeromq/zmq4"
)

type Topic string

const (
	TopicMinimalTxCommit Topic = "json-minimal-tx_commit"
)

var knownTopics = []Topic{TopicMinimalTxCommit}

// JSONFromFrame Splits a topic:json frame
func JSONFromFrame(frame []byte) (Topic, []byte, error) {
	unknown := Topic("")

	parts := bytes.SplitN(frame, []byte(":"), 2)
	if len(parts) != 2 {
		return unknown, nil, fmt.Errorf("malformed: '%s'", string(frame))
	}

	topic, gson := string(parts[0]), parts[1]

	for _, t := range knownTopics {
		if topic == string(t) {
			return t, gson, nil
		}
	}

	return unknown, nil, fmt.Errorf("unknown topic '%s'", topic)
}

// Notifier Publishes committed records on a ZeroMQ PUB socket
type Notifier struct {
	lock   sync.Mutex
	socket zmq4.Socket
}

func NewNotifier(ctx context.Context, endpoint string) (*Notifier, error) {
	socket := zmq4.NewPub(ctx)
	if err := socket.Listen(endpoint); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("listen %s: %w", endpoint, err)
	}
	return &Notifier{
		socket: socket,
	}, nil
}

func (n *Notifier) Publish(record Record) error {
	buf, err := utils.MarshalJSON(record)
	if err != nil {
		return err
	}

	frame := make([]byte, 0, len(TopicMinimalTxCommit)+1+len(buf))
	frame = append(frame, TopicMinimalTxCommit...)
	frame = append(frame, ':')
	frame = append(frame, buf...)

	n.lock.Lock()
	defer n.lock.Unlock()
	return n.socket.Send(zmq4.NewMsg(frame))
}

// Listener Suitable for MemoryLedger.OnCommit, publish failures are logged
func (n *Notifier) Listener(record Record) {
	if err := n.Publish(record); err != nil {
		utils.Errorf("ZMQ", "publish %s: %s", record.Id, err)
	}
}

func (n *Notifier) Close() error {
	return n.socket.Close()
}

// Client Subscribes to a Notifier
type Client struct {
	endpoint string
	topics   []Topic
}

func NewClient(endpoint string, topics ...Topic) *Client {
	return &Client{
		endpoint: endpoint,
		topics:   topics,
	}
}

// Listen Blocks until ctx is done or the socket fails, calling onCommit for every record received
func (c *Client) Listen(ctx context.Context, onCommit func(record *Record)) error {
	socket := zmq4.NewSub(ctx)
	defer socket.Close()

	if err := socket.Dial(c.endpoint); err != nil {
		return fmt.Errorf("dial %s: %w", c.endpoint, err)
	}

	for _, topic := range c.topics {
		if err := socket.SetOption(zmq4.OptionSubscribe, string(topic)); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}

	for {
		msg, err := socket.Recv()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("recv: %w", err)
		}

		if len(msg.Frames) == 0 {
			continue
		}

		topic, gson, err := JSONFromFrame(msg.Frames[0])
		if err != nil {
			return err
		}

		switch topic {
		case TopicMinimalTxCommit:
			var record Record
			if err = utils.UnmarshalJSON(gson, &record); err != nil {
				return fmt.Errorf("decode %s: %w", topic, err)
			}
			onCommit(&record)
		default:
			return errors.New("unhandled topic")
		}
	}
}
