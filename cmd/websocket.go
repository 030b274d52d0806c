package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChanaPCN/parkify-app/internal/handlers"
	"github.com/ChanaPCN/parkify-app/internal/models"
)

const (
	readLimit     = 1 << 10
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
	directBuffer  = 64
)

var errHubBusy = errors.New("websocket hub: notification queue full")

type directMsg struct {
	lessorID int
	event    models.ReservationEvent
}

type unreg struct {
	lessorID int
	conn     *websocket.Conn
}

type Client struct {
	ID     int
	Socket *websocket.Conn
}

// WebSocketManager owns the lessor connections. Only Run touches clients.
type WebSocketManager struct {
	clients    map[int]*websocket.Conn
	direct     chan directMsg
	register   chan Client
	unregister chan unreg
	stopped    chan struct{}
	infoLog    *log.Logger
	errorLog   *log.Logger
}

func NewWebSocketManager(infoLog, errorLog *log.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[int]*websocket.Conn),
		direct:     make(chan directMsg, directBuffer),
		register:   make(chan Client),
		unregister: make(chan unreg),
		stopped:    make(chan struct{}),
		infoLog:    infoLog,
		errorLog:   errorLog,
	}
}

func (ws *WebSocketManager) Run(ctx context.Context) {
	defer close(ws.stopped)
	for {
		select {
		case <-ctx.Done():
			for id, conn := range ws.clients {
				_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
				_ = conn.Close()
				delete(ws.clients, id)
			}
			return

		case client := <-ws.register:
			if old, ok := ws.clients[client.ID]; ok && old != client.Socket {
				_ = old.Close()
			}
			ws.clients[client.ID] = client.Socket
			ws.send(client.ID, client.Socket, map[string]string{"type": "connected"})
			ws.infoLog.Printf("WS register lessor=%d", client.ID)

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.lessorID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(ws.clients, u.lessorID)
				ws.infoLog.Printf("WS unregister lessor=%d", u.lessorID)
			}

		case dm := <-ws.direct:
			if conn, ok := ws.clients[dm.lessorID]; ok {
				ws.send(dm.lessorID, conn, dm.event)
			} else {
				ws.infoLog.Printf("WS skip: lessor=%d offline", dm.lessorID)
			}
		}
	}
}

func (ws *WebSocketManager) send(id int, conn *websocket.Conn, v interface{}) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(v); err != nil {
		ws.errorLog.Printf("WS send error to=%d: %v", id, err)
		_ = conn.Close()
		delete(ws.clients, id)
	}
}

func (ws *WebSocketManager) join(c Client) bool {
	select {
	case ws.register <- c:
		return true
	case <-ws.stopped:
		return false
	}
}

func (ws *WebSocketManager) leave(u unreg) {
	select {
	case ws.unregister <- u:
	case <-ws.stopped:
	}
}

// NotifyLessor queues event for the lessor's socket. Offline lessors miss it.
func (ws *WebSocketManager) NotifyLessor(lessorID int, event models.ReservationEvent) error {
	select {
	case ws.direct <- directMsg{lessorID: lessorID, event: event}:
		return nil
	default:
		return errHubBusy
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketHandler upgrades an authenticated lessor. The client only reads;
// anything it sends is discarded.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := handlers.IdentityFrom(r.Context())
	if !ok || caller.UserID == 0 {
		app.clientError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	if !app.wsManager.join(Client{ID: caller.UserID, Socket: conn}) {
		_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
		_ = conn.Close()
		return
	}

	done := make(chan struct{})
	go pingLoop(app.wsManager, conn, caller.UserID, done)
	go readLoop(app.wsManager, conn, caller.UserID, done)
}

func pingLoop(ws *WebSocketManager, conn *websocket.Conn, lessorID int, done <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				ws.leave(unreg{lessorID: lessorID, conn: conn})
				return
			}
		}
	}
}

func readLoop(ws *WebSocketManager, conn *websocket.Conn, lessorID int, done chan<- struct{}) {
	defer func() {
		close(done)
		ws.leave(unreg{lessorID: lessorID, conn: conn})
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
