package server

import (
	"encoding/json"
	"net/http"

	"github.com/amixtum/dd2/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сервера
type DebugHandler struct {
	Registry *engine.Registry
}

func NewDebugHandler(reg *engine.Registry) *DebugHandler {
	return &DebugHandler{Registry: reg}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
	mux.HandleFunc("/debug/session", h.handleSession)
}

// /debug/sessions - сводки всех живых сессий
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Registry.List(r.Context()))
}

// /debug/session?id=s1 - сводка одной сессии
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Registry.Get(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	info, ok := sess.Info(r.Context())
	if !ok {
		http.Error(w, "Session closed", http.StatusGone)
		return
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
