package push

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// socketConn serializes writes to a websocket connection; gorilla permits
// only one concurrent writer.
type socketConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// WrapConn adapts a websocket connection to the hub's Conn interface.
func WrapConn(conn *websocket.Conn) Conn {
	return &socketConn{conn: conn}
}

func (s *socketConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *socketConn) Close() error {
	return s.conn.Close()
}
