package client

import (
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

func GetStreamAddress(streamDsn string, symbol string, suffixes []string) string {
	streams := make([]string, 0)
	for _, suffix := range suffixes {
		streams = append(streams, fmt.Sprintf("%s%s", strings.ToLower(symbol), suffix))
	}

	return fmt.Sprintf("%s/stream?streams=%s", streamDsn, strings.Join(streams, "/"))
}

// Dial opens one combined-stream connection and pumps raw messages into
// eventChannel until the socket fails. The first read error is sent to
// disconnectChannel and the pump stops; reconnecting is the caller's job.
func Dial(address string, eventChannel chan<- []byte, disconnectChannel chan<- error) (*websocket.Conn, error) {
	connection, _, err := websocket.DefaultDialer.Dial(address, nil)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			_, message, err := connection.ReadMessage()
			if err != nil {
				_ = connection.Close()
				disconnectChannel <- err
				return
			}

			eventChannel <- message
		}
	}()

	return connection, nil
}
