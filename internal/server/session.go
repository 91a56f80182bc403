package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/san-kum/ropecoil/internal/dynamo"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

type session struct {
	id     string
	conn   *websocket.Conn
	worker *protocol.Worker
	logger *log.Logger
	mu     sync.Mutex
}

func (s *Server) newSession(id string, conn *websocket.Conn) *session {
	logger := s.logger.With("session", id)
	opts := []sim.Option{sim.WithLogger(logger)}
	if s.variants != nil {
		opts = append(opts, sim.WithVariants(s.variants))
	}
	simulator := sim.New(s.params, opts...)
	return &session{
		id:     id,
		conn:   conn,
		worker: protocol.NewWorker(simulator, protocol.WithWorkerLogger(logger)),
		logger: logger,
	}
}

// run pumps frames into the worker and replies back out until the peer
// goes away or ctx is cancelled.
func (ss *session) run(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	defer ss.conn.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = ss.worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		ss.writeLoop()
	}()
	go func() {
		<-ctx.Done()
		ss.conn.Close()
	}()

	ss.readLoop(ctx)
	cancel()
	wg.Wait()
}

func (ss *session) readLoop(ctx context.Context) {
	ss.conn.SetReadLimit(maxMessageSize)
	for {
		mt, raw, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.logger.Warn("read failed", "err", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		req, err := protocol.Decode(raw)
		switch {
		case errors.Is(err, dynamo.ErrUnknownCommand):
			ss.logger.Warn("ignoring command", "err", err)
			continue
		case err != nil:
			ss.write(protocol.Response{Type: protocol.ReplyError, Message: err.Error()})
			continue
		}
		select {
		case ss.worker.Requests() <- req:
		case <-ctx.Done():
			return
		}
	}
}

// writeLoop ends when the worker closes its response channel.
func (ss *session) writeLoop() {
	for resp := range ss.worker.Responses() {
		if resp.Silent {
			continue
		}
		ss.write(resp)
	}
}

func (ss *session) write(resp protocol.Response) {
	data, err := protocol.Encode(resp)
	if err != nil {
		ss.logger.Error("encode reply", "type", resp.Type, "err", err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if err := ss.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := ss.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		ss.logger.Debug("write failed", "err", err)
	}
}
