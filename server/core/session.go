package core

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/imdvls/Pixelknight/shared/messages"
)

// session is one connected websocket. The read side only decodes and
// submits commands; the write side drains a bounded queue.
type session struct {
	id   string
	conn *websocket.Conn
	out  chan []byte

	// joined flips once the handshake is queued; broadcasts skip the
	// session until then so the handshake is always its first frame.
	joined atomic.Bool

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(id string, conn *websocket.Conn, queue int) *session {
	return &session{
		id:   id,
		conn: conn,
		out:  make(chan []byte, queue),
		done: make(chan struct{}),
	}
}

// enqueue queues a frame without blocking. A full queue drops the frame;
// the next snapshot carries the full state anyway.
func (s *session) enqueue(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- frame:
		return true
	default:
		return false
	}
}

func (s *session) close(status websocket.StatusCode, reason string) {
	s.closeOnce.Do(func() {
		close(s.done)
		go s.conn.Close(status, reason)
	})
}

func (s *session) writePump(ctx context.Context, timeout time.Duration, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case frame := <-s.out:
			writeCtx, cancel := context.WithTimeout(ctx, timeout)
			err := s.conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				logger.Printf("[session] %s: write failed: %v", s.id, err)
				s.conn.CloseNow()
				return
			}
		}
	}
}

// readPump decodes frames and hands them to submit until the connection
// fails. Malformed frames are logged and dropped.
func (s *session) readPump(ctx context.Context, submit func(Command), logger *log.Logger) error {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			logger.Printf("[session] %s: dropping binary frame", s.id)
			continue
		}
		msg, err := messages.DecodeClient(data)
		if err != nil {
			logger.Printf("[session] %s: dropping frame: %v", s.id, err)
			continue
		}
		submit(Command{Kind: CommandMessage, PlayerID: s.id, Msg: msg})
	}
}

// expectedClose reports whether err is an ordinary end of a connection.
func expectedClose(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
