package server

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling

	"voidreach-server/internal/engine"
	"voidreach-server/internal/version"
	"voidreach-server/pkg/logger"
)

type Server struct {
	Engine *engine.GameService
	Port   string

	// AdminToken защищает операторские эндпоинты. "" = админка выключена.
	AdminToken string

	// RateLimit / RateBurst - лимит входящих команд на соединение в секунду.
	RateLimit float64
	RateBurst int
}

func New(engine *engine.GameService, port string) *Server {
	return &Server{
		Engine:    engine,
		Port:      port,
		RateLimit: 20,
		RateBurst: 40,
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Engine, s.AdminToken)
	debugHandler.RegisterRoutes(mux)

	logger.Log.Infof("🛡️  Voidreach Server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s.Engine, conn, s.RateLimit, s.RateBurst)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
