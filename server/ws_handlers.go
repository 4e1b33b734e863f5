package server

import (
	"net/http"
	"sync"

	"github.com/bulbd/bulbd/common"
	"github.com/gorilla/websocket"
)

// Event sent to websocket clients.
type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Serialized websocket writes.
type wsConn struct {
	sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(mt int, data []byte) error {
	c.Lock()
	defer c.Unlock()

	return c.conn.WriteMessage(mt, data)
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.Lock()
	defer c.Unlock()

	return c.conn.WriteJSON(v)
}

// Handles WS upgrade request.
func (s *BulbServer) handleWS(writer http.ResponseWriter, request *http.Request) {
	c, err := s.wsSettings.Upgrade(writer, request, nil)
	if err != nil {
		s.Logger.Error("Failed to establish a WS connection", err, common.LogSystemToken, logSystem)
		return
	}

	go s.processWSConnection(&wsConn{conn: c})
}

// Streams updates to a WS client until it disconnects.
func (s *BulbServer) processWSConnection(conn *wsConn) {
	stop := make(chan bool, 1)
	bulbSubID, bulbUpd := s.Settings.FanOut().SubscribeBulbUpdates()
	defer s.Settings.FanOut().UnSubscribeBulbUpdates(bulbSubID)

	programSubID, programUpd := s.Settings.FanOut().SubscribeProgramUpdates()
	defer s.Settings.FanOut().UnSubscribeProgramUpdates(programSubID)

	go s.processIncomingWSMessages(conn, stop)

	for {
		var err error
		select {
		case <-stop:
			return
		case msg, ok := <-bulbUpd:
			if !ok {
				return
			}

			err = conn.writeJSON(&wsEvent{Type: wsBulbUpdate, Data: msg})
		case msg, ok := <-programUpd:
			if !ok {
				return
			}

			err = conn.writeJSON(&wsEvent{Type: wsProgramStatus, Data: msg})
		}

		if err != nil {
			s.Logger.Debug("Failed to write WS message", common.LogSystemToken, logSystem,
				common.LogErrorToken, err.Error())
		}
	}
}

// Processes incoming WS messages, only pings are expected.
func (s *BulbServer) processIncomingWSMessages(conn *wsConn, stop chan bool) {
	defer conn.conn.Close() // nolint: errcheck
	for {
		mt, message, err := conn.conn.ReadMessage()
		if err != nil {
			s.Logger.Debug("Closing WS connection", common.LogSystemToken, logSystem)
			stop <- true
			return
		}

		if "ping" == string(message) {
			conn.write(mt, []byte("pong")) // nolint: errcheck
		}
	}
}
