package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/internal/engine"
	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией игры.
// Одно соединение - одна партия.
type Client struct {
	Session *engine.Session
	Conn    *websocket.Conn
	Send    chan api.ServerResponse

	cancel context.CancelFunc
	log    *logrus.Entry
}

func NewClient(sess *engine.Session, conn *websocket.Conn, cancel context.CancelFunc) *Client {
	return &Client{
		Session: sess,
		Conn:    conn,
		Send:    make(chan api.ServerResponse, 256),
		cancel:  cancel,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ws_client",
			"session":   sess.ID,
		}),
	}
}

// handleWS обрабатывает подключение игрока. ?seed= задает сид партии.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	var seed int64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		seed = v
	}

	ctx, cancel := context.WithCancel(s.base)
	sess, err := s.Registry.Start(ctx, seed)
	if err != nil {
		cancel()
		logger.Log.WithError(err).Error("Failed to start session")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(sess, conn, cancel)
	client.log.WithField("seed", sess.Seed).Info("Client connected")

	// Запускаем пампы
	go client.writePump()
	go client.readPump(ctx)
}

// readPump читает команды от клиента и передает их в сессию.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.cancel()
		close(c.Send)
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Первая отрисовка без ожидания команды клиента
	if !c.submit(ctx, api.ClientCommand{Action: "INIT"}) {
		return
	}

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS read error")
			}
			return
		}
		if !c.submit(ctx, cmd) {
			return
		}
	}
}

// submit выполняет команду. Отказ превращается в ERROR для клиента,
// закрытая сессия завершает соединение.
func (c *Client) submit(ctx context.Context, cmd api.ClientCommand) bool {
	resp, err := c.Session.Submit(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		select {
		case <-c.Session.Done():
			return false
		default:
		}
		c.log.WithError(err).WithField("action", cmd.Action).Debug("Command rejected")
		resp = &api.ServerResponse{
			Type:    api.TypeError,
			Session: c.Session.ID,
			Error:   err.Error(),
		}
	}

	select {
	case c.Send <- *resp:
	default:
		c.log.Warn("Send buffer full, dropping response")
	}
	return true
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-c.Session.Done():
			// Сессия закрыта по простою или остановке сервера
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			return

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
