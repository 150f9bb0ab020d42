package network

import (
	"context"
	"fmt"
	"net"

	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/messages"
)

// UDPServer receives the unreliable game traffic of native clients.
type UDPServer struct {
	port int
	conn *net.UDPConn
}

type NewUDPServerOptions struct {
	Port int
}

func NewUDPServer(opts NewUDPServerOptions) *UDPServer {
	return &UDPServer{
		port: opts.Port,
	}
}

// GetUDPConn returns the UDP listener connection
func (s *UDPServer) GetUDPConn() *net.UDPConn {
	if s.conn == nil {
		panic("UDP connection is not set on UDPServer")
	}
	return s.conn
}

type GameMessageHandler func(ctx context.Context, addr *net.UDPAddr, message *messages.Message)

// Start starts the UDP server.
func (s *UDPServer) Start(ctx context.Context, messageHandler GameMessageHandler) {
	udpAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		log.Error("Failed to resolve UDP address: %v", err)
		return
	}

	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		log.Error("Failed to listen on UDP address: %v", err)
		return
	}
	defer udpConn.Close()
	s.conn = udpConn

	log.Info("UDP server listening on %s", udpAddr.String())

	go func() {
		<-ctx.Done()
		udpConn.Close()
	}()

	for {
		message, addr, err := ReadMessageFromUDP(udpConn)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("UDP server closed")
				return
			}
			log.Error("Failed to read message from UDP connection: %v", err)
			continue
		}

		log.Trace("Received UDP message of type %s from %d", message.Type, message.ClientID)

		messageHandler(ctx, addr, message)
	}
}

// WriteMessageToUDP writes a Message to a UDP connection
func WriteMessageToUDP(conn *net.UDPConn, addr *net.UDPAddr, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	_, err = conn.WriteToUDP(b, addr)
	if err != nil {
		return fmt.Errorf("failed to write message to UDP connection: %v", err)
	}

	return nil
}

// ReadMessageFromUDP reads a Message from a UDP connection
func ReadMessageFromUDP(conn *net.UDPConn) (*messages.Message, *net.UDPAddr, error) {
	buf := make([]byte, messages.UDPMessageBufferSize)
	n, addr, err := conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read message from UDP connection: %v", err)
	}

	msg, err := messages.DeserializeMessage(buf[:n])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, addr, nil
}
