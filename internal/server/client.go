package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16384
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game     *engine.GameService
	Conn     *websocket.Conn
	Send     chan api.ServerMessage
	PlayerID domain.PlayerID

	// limiter гасит флуд команд с одного соединения. Превышение не рвет
	// сокет: команда отбрасывается с ошибкой.
	limiter *rate.Limiter
}

func NewClient(game *engine.GameService, conn *websocket.Conn, limit float64, burst int) *Client {
	return &Client{
		Game:    game,
		Conn:    conn,
		Send:    make(chan api.ServerMessage, 256),
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Game.Hub.Unregister(c.PlayerID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		if c.PlayerID != "" {
			c.Game.SetConnected(c.PlayerID, false)
			logger.Log.WithField("player_id", c.PlayerID).Info("Client disconnected")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN)
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		logger.Log.Warn("Handshake failed")
		return
	}

	// Токен клиента и есть его устойчивый id: переподключение с тем же
	// токеном возвращает игрока в его слот.
	c.PlayerID = domain.PlayerID(loginCmd.Token)
	if c.PlayerID == "" {
		c.PlayerID = domain.PlayerID(domain.NewID())
	}

	logger.Log.WithFields(logrus.Fields{
		"player_id": c.PlayerID,
	}).Info("Client logged in")

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	gameUpdates := c.Game.Hub.Register(c.PlayerID)

	go func() {
		for msg := range gameUpdates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	// 3. ПРИВЕТСТВИЕ: вернувшемуся игроку - снимок его сессии,
	// новому - его токен для последующих входов.
	if c.Game.InSession(c.PlayerID) {
		c.Game.SetConnected(c.PlayerID, true)
		c.Game.ProcessCommand(c.PlayerID, api.ClientCommand{Action: "SESSION_STATE"})
	} else {
		c.Game.Hub.SendTo(c.PlayerID, api.ServerMessage{Type: "INFO", Info: "Connected as " + c.PlayerID.String()})
	}

	// 4. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		if !c.limiter.Allow() {
			c.Game.Hub.SendTo(c.PlayerID, api.ServerMessage{Type: "ERROR", Error: "Too many commands, slow down"})
			continue
		}
		cmd.Token = c.PlayerID.String()
		c.Game.ProcessCommand(c.PlayerID, cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
