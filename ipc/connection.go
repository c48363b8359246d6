package ipc

import (
	"encoding/json"
	"io"
	"log/slog"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one bridge session. Each game player gets its own
// connection, named after the hello handshake.
type Connection struct {
	conn     io.ReadWriteCloser
	handlers map[string]Handler
	Player   string
}

func NewConnection(conn io.ReadWriteCloser, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes or errors and owns the conn
// lifetime. Handler errors are reported to the peer as an error envelope.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}

		if env.Type == TypeHello {
			var hello HelloMessage
			if err := json.Unmarshal(env.Data, &hello); err == nil && hello.Player != "" {
				c.Player = hello.Player
			}
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "player", c.Player, "error", err)
			if sendErr := c.Send(TypeError, ErrorMessage{Type: env.Type, Error: err.Error()}); sendErr != nil {
				slog.Error("failed to send error", "error", sendErr)
				return
			}
			continue
		}

		if resp != nil {
			if err := WriteEnvelope(c.conn, *resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "player", c.Player)
		}
	}
}
