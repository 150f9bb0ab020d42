package network

import (
	"net"
	"testing"

	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMessageTCP(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sent := &messages.Message{
		ClientID: 7,
		Type:     messages.MessageTypeServerActionConfirm,
		Payload:  []byte(`{"clientID":7}`),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- WriteMessageToTCP(client, sent)
	}()

	got, err := ReadMessageFromTCP(server)
	require.NoError(t, err)
	require.NoError(t, <-errChan)
	assert.Equal(t, sent.ClientID, got.ClientID)
	assert.Equal(t, sent.Type, got.Type)
	assert.Equal(t, sent.Payload, got.Payload)
}

func TestReadMessageFromTCP_ConnectionClosed(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	require.NoError(t, client.Close())

	_, err := ReadMessageFromTCP(server)
	require.Error(t, err)
	_, ok := err.(*ErrConnectionClosed)
	assert.True(t, ok)
}
