package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/network"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"
	"github.com/BastardoSenpai/BootlegXCom/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// commandTimeout - сколько клиент ждет очереди сессии
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией боя.
// Первое сообщение - рукопожатие: Token задает ID клиента (пусто - сгенерировать).
// Дальше каждое сообщение - команда, Token в ней - ID юнита.
type Client struct {
	Session *engine.Session
	Hub     *network.Broadcaster
	Conn    *websocket.Conn
	Send    chan api.ServerEvent
	ID      string

	updates chan api.ServerEvent

	// done закрывается, когда завершается любая из помп
	done     chan struct{}
	stopOnce sync.Once
}

func NewClient(session *engine.Session, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	return &Client{
		Session: session,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan api.ServerEvent, 256),
		done:    make(chan struct{}),
	}
}

func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// forward перекладывает события из подписки в Send. Закрывает Send при выходе,
// после остановки соединения снимает подписку.
func (c *Client) forward(updates chan api.ServerEvent) {
	defer close(c.Send)
	for {
		select {
		case msg, ok := <-updates:
			if !ok {
				return
			}
			select {
			case c.Send <- msg:
			case <-c.done:
				c.Hub.Release(c.ID, updates)
				return
			}
		case <-c.done:
			c.Hub.Release(c.ID, updates)
			return
		}
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.stop()
		if c.updates != nil {
			c.Hub.Release(c.ID, c.updates)
			logger.Log.WithField("client_id", c.ID).Info("Client disconnected")
		} else {
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
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

	// 1. HANDSHAKE
	var login api.ClientCommand
	if err := c.Conn.ReadJSON(&login); err != nil {
		logger.Log.WithError(err).Warn("Handshake failed")
		return
	}

	c.ID = login.Token
	if c.ID == "" {
		c.ID = utils.GenerateID()
	}

	// 2. ПОДПИСКА НА СОБЫТИЯ БОЯ
	c.updates = c.Hub.Register(c.ID)
	go c.forward(c.updates)

	logger.Log.WithFields(logrus.Fields{
		"client_id": c.ID,
		"remote":    c.Conn.RemoteAddr().String(),
	}).Info("Client connected")

	// Первая отрисовка
	c.sendState()

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS read error")
			}
			break
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd api.ClientCommand) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.Session.ProcessCommand(ctx, cmd)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"client_id": c.ID,
			"action":    cmd.Action,
			"unit_id":   cmd.Token,
		}).WithError(err).Debug("Command rejected")
		c.Hub.SendTo(c.ID, api.ServerEvent{
			Type:    "ERROR",
			UnitID:  cmd.Token,
			Payload: api.ErrorView{Action: cmd.Action, Error: err.Error()},
		})
		return
	}

	if st, ok := res.State.(api.ServerResponse); ok {
		c.Hub.SendTo(c.ID, api.ServerEvent{Type: st.Type, Round: st.Round, Payload: st})
		return
	}
	c.sendState()
}

func (c *Client) sendState() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	st, err := c.Session.State(ctx)
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", c.ID).Warn("Failed to build state")
		return
	}
	c.Hub.SendTo(c.ID, api.ServerEvent{Type: st.Type, Round: st.Round, Payload: st})
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
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
