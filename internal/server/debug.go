package server

import (
	"encoding/json"
	"io"
	"net/http"

	"voidreach-server/internal/agent"
	"voidreach-server/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
// и операторским командам. Все эндпоинты требуют админ-токен.
type DebugHandler struct {
	Service    *engine.GameService
	AdminToken string
}

func NewDebugHandler(s *engine.GameService, adminToken string) *DebugHandler {
	return &DebugHandler{Service: s, AdminToken: adminToken}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.authorized(h.handleListSessions))
	mux.HandleFunc("/debug/session", h.authorized(h.handleDumpSession))
	mux.HandleFunc("/admin/command", h.authorized(h.handleAdminCommand))
	mux.HandleFunc("/admin/bot", h.authorized(h.handleAddBot))
}

// authorized проверяет заголовок X-Admin-Token. Пустой токен в конфиге
// полностью закрывает поверхность.
func (h *DebugHandler) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.AdminToken == "" || r.Header.Get("X-Admin-Token") != h.AdminToken {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// /debug/sessions - сводка по всем активным сессиям
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Summaries())
}

// /debug/session?code=WORD-1234 - полный дамп сессии (включая скрытое
// туманом войны: отладочная поверхность фильтрацией не занимается)
func (h *DebugHandler) handleDumpSession(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	session := h.Service.SessionByCode(code)
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, session)
}

// /admin/command - операторская команда над сессией.
// Тело: {"joinCode": "...", "action": "ADMIN_...", "payload": {...}}
func (h *DebugHandler) handleAdminCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var req struct {
		JoinCode string          `json:"joinCode"`
		Action   string          `json:"action"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	result, err := h.Service.ProcessAdminCommand(req.JoinCode, req.Action, req.Payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"result": result})
}

// /admin/bot - подсадить бота в лобби по коду вступления.
// Тело: {"joinCode": "...", "name": "Drone-1"}
func (h *DebugHandler) handleAddBot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		JoinCode string `json:"joinCode"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<12)).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "Drone"
	}

	bot := agent.NewBot(req.Name, h.Service)
	go bot.Run()
	bot.Join(req.JoinCode)

	writeJSON(w, map[string]string{"playerId": bot.PlayerID.String()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, нет сессий), возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
