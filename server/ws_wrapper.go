package server

import (
	"github.com/gorilla/websocket"
)

// wsWrapper adapts a websocket connection to the frame boundary the
// session consumes: one websocket message is one protocol frame.
type wsWrapper struct {
	conn *websocket.Conn
}

func (wsw *wsWrapper) Send(frame []byte) error {
	return wsw.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (wsw *wsWrapper) Receive() ([]byte, error) {
	for {
		messageType, p, err := wsw.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType == websocket.BinaryMessage {
			return p, nil
		}
		// Text frames from diagnostic clients carry nothing the
		// protocol defines; skip them.
	}
}

func (wsw *wsWrapper) Close() error {
	return wsw.conn.Close()
}
