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
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natsio "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var natsPort int32 = 42169

func NewNATSTestServer(t *testing.T) (URI string) {
	port := atomic.AddInt32(&natsPort, 1)
	opts := &server.Options{
		Host: "127.0.0.1",
		Port: int(port),
	}
	srv, err := server.NewServer(opts)
	if err != nil {
		panic(err)
	}
	go srv.Start()
	t.Cleanup(srv.Shutdown)

	if !srv.ReadyForConnections(10 * time.Second) {
		panic("failed to setup NATS test server")
	}
	uri, err := url.Parse("nats://" + srv.Addr().String())
	if err != nil {
		panic(err)
	}

	return uri.String()
}

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()
	uri := NewNATSTestServer(t)

	client, err := NewClientWithDefaults(uri)
	require.NoError(t, err)
	defer client.Close()

	ch := make(chan *natsio.Msg, 1)
	sub, err := client.ChanSubscribe("devicecommands.device.*", ch)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = client.Publish("devicecommands.device.ac-01", []byte("hello"))
	require.NoError(t, err)

	select {
	case msg := <-ch:
		assert.Equal(t, "devicecommands.device.ac-01", msg.Subject)
		assert.Equal(t, []byte("hello"), msg.Data)
	case <-time.After(5 * time.Second):
		assert.FailNow(t, "timeout waiting for message")
	}
}

func TestNewClientError(t *testing.T) {
	t.Parallel()
	_, err := NewClient("bats://localhost")
	assert.Error(t, err)
}

func TestPublishBadSubject(t *testing.T) {
	t.Parallel()
	uri := NewNATSTestServer(t)

	client, err := NewClient(uri)
	require.NoError(t, err)
	defer client.Close()

	err = client.Publish("", []byte("hello"))
	assert.ErrorIs(t, err, natsio.ErrBadSubject)
}
