// Copyright 2025 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package nats

import (
	"context"
	"time"

	natsio "github.com/nats-io/nats.go"

	"github.com/mendersoftware/go-lib-micro/log"
)

const (
	// clientName identifies the service in the nats server monitoring
	clientName = "devicecommands"
	// reconnectBufSize buffers publishes while reconnecting (10 MB)
	reconnectBufSize = 10 * 1024 * 1024
	reconnectWait    = 1 * time.Second
)

// Client is the nats client
//
//go:generate ../../utils/mockgen.sh
type Client interface {
	Publish(string, []byte) error
	ChanSubscribe(string, chan *natsio.Msg) (*natsio.Subscription, error)
	Close()
}

// NewClient returns a new nats client
func NewClient(url string, opts ...natsio.Option) (Client, error) {
	natsClient, err := natsio.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		nats: natsClient,
	}, nil
}

// NewClientWithDefaults returns a nats client that keeps reconnecting
// forever and logs connection state changes. Publishes issued while the
// server is away are buffered.
func NewClientWithDefaults(url string) (Client, error) {
	l := log.FromContext(context.Background())

	return NewClient(url,
		natsio.Name(clientName),
		natsio.MaxReconnects(-1),
		natsio.ReconnectWait(reconnectWait),
		natsio.ReconnectBufSize(reconnectBufSize),
		natsio.RetryOnFailedConnect(true),
		natsio.ClosedHandler(func(_ *natsio.Conn) {
			l.Info("nats client closed the connection")
		}),
		natsio.DisconnectErrHandler(func(_ *natsio.Conn, err error) {
			if err != nil {
				l.Warnf("nats client disconnected, err: %v", err)
			}
		}),
		natsio.ReconnectHandler(func(conn *natsio.Conn) {
			l.Warnf("nats client reconnected to %s", conn.ConnectedUrl())
		}),
	)
}

type client struct {
	nats *natsio.Conn
}

func (c *client) Publish(subj string, data []byte) error {
	return c.nats.Publish(subj, data)
}

func (c *client) ChanSubscribe(subj string,
	channel chan *natsio.Msg) (*natsio.Subscription, error) {
	return c.nats.ChanSubscribe(subj, channel)
}

// Close flushes pending messages and closes the connection
func (c *client) Close() {
	if err := c.nats.Drain(); err != nil {
		c.nats.Close()
	}
}
