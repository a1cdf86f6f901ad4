package server

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/pkg/logger"
)

var watcherSeq atomic.Uint64

// handleWatch подключает зрителя. ?session= ограничивает поток одной
// партией, без параметра приходят кадры всех сессий.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session != "" {
		if _, ok := s.Registry.Get(session); !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	id := fmt.Sprintf("watch-%d", watcherSeq.Add(1))
	frames := s.Registry.Hub.Register(id, session)
	log := logger.Log.WithFields(logrus.Fields{
		"component": "watcher",
		"watcher":   id,
		"session":   session,
	})
	log.Info("Watcher connected")

	// Зритель ничего не шлет: читаем только чтобы заметить закрытие
	go func() {
		defer s.Registry.Hub.Unregister(id)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				log.Info("Watcher disconnected")
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			_ = conn.Close()
		}()
		for {
			select {
			case frame, ok := <-frames:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					log.WithError(err).Debug("write frame failed")
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
}
