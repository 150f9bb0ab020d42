package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/ricochet-mp/ricochet/pkg/network"
)

// A debug client for poking at the game server over its reliable channel.
// Logs in, then reads action names from stdin and sends them as requests.
func main() {
	addr := flag.String("addr", "localhost:8888", "Address of the game server")
	token := flag.String("token", "", "Auth token (the user ID when the server runs with -local-auth)")
	characterID := flag.Int("character-id", 1, "Character to play")
	logLevel := flag.String("log-level", "debug", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel))

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to %s: %v", *addr, err))
	}
	defer conn.Close()

	payload, err := json.Marshal(&messages.ClientLogin{
		Token:       *token,
		CharacterID: int32(*characterID),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal login: %v", err))
	}
	loginMsg := &messages.Message{
		Type:    messages.MessageTypeClientLogin,
		Payload: payload,
	}
	if err := network.WriteMessageToTCP(conn, loginMsg); err != nil {
		panic(fmt.Sprintf("Failed to send login: %v", err))
	}

	go receiveMessages(conn)

	fmt.Println("Commands: trigger, reload, ragdoll, exit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var action uint8
		switch line {
		case "trigger":
			action = messages.ActionTrigger
		case "reload":
			action = messages.ActionReload
		case "ragdoll":
			action = messages.ActionToggleRagdoll
		case "exit":
			return
		case "":
			continue
		default:
			fmt.Printf("Unknown command %q\n", line)
			continue
		}

		payload, err := json.Marshal(&messages.ClientActionRequest{Action: action})
		if err != nil {
			log.Error("Failed to marshal action request: %v", err)
			continue
		}
		msg := &messages.Message{
			Type:    messages.MessageTypeClientActionRequest,
			Payload: payload,
		}
		if err := network.WriteMessageToTCP(conn, msg); err != nil {
			log.Error("Failed to send action request: %v", err)
			return
		}
	}
}

func receiveMessages(conn net.Conn) {
	for {
		msg, err := network.ReadMessageFromTCP(conn)
		if err != nil {
			if _, ok := err.(*network.ErrConnectionClosed); ok {
				log.Info("Connection closed by server")
				os.Exit(0)
			}
			log.Error("Failed to read message: %v", err)
			os.Exit(1)
		}

		switch msg.Type {
		case messages.MessageTypeServerLoginSuccess:
			var success messages.ServerLoginSuccess
			if err := json.Unmarshal(msg.Payload, &success); err != nil {
				log.Error("Failed to unmarshal login success: %v", err)
				continue
			}
			log.Info("Logged in as client %d", success.ClientID)
		case messages.MessageTypeServerLoginFailure:
			var failure messages.ServerLoginFailure
			if err := json.Unmarshal(msg.Payload, &failure); err != nil {
				log.Error("Failed to unmarshal login failure: %v", err)
				continue
			}
			log.Error("Login failed: %s", failure.Reason)
			os.Exit(1)
		case messages.MessageTypeServerActionConfirm:
			var confirm messages.ServerActionConfirm
			if err := json.Unmarshal(msg.Payload, &confirm); err != nil {
				log.Error("Failed to unmarshal action confirm: %v", err)
				continue
			}
			log.Info("Action confirm: client %d action %d ragdoll %t ammo %d", confirm.ClientID, confirm.Action, confirm.Ragdoll, confirm.Ammo)
		default:
			log.Info("Received %s: %s", msg.Type, string(msg.Payload))
		}
	}
}
