package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matt-g-everett/ledreel/stream"
)

// StatusSource provides the current playback status.
type StatusSource interface {
	Status() stream.Status
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Api serves the preview client, the current playback status and a websocket
// feed of status updates.
type Api struct {
	addr      string
	staticDir string
	source    StatusSource
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]bool
}

func NewApi(config stream.Config, source StatusSource) *Api {
	a := new(Api)
	a.addr = config.API.Addr
	a.staticDir = config.API.StaticDir
	a.source = source
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	a.clients = make(map[*client]bool)
	return a
}

// Handler returns the HTTP routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(a.staticDir)))
	mux.HandleFunc("/status", a.handleStatus)
	mux.HandleFunc("/ws", a.handleWebsocket)
	return mux
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.source.Status()); err != nil {
		log.Printf("Writing status: %v", err)
	}
}

func (a *Api) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	if b, err := json.Marshal(a.source.Status()); err == nil {
		c.send <- b
	}
	a.addClient(c)
	go a.writeLoop(c)

	// Reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	a.removeClient(c)
}

func (a *Api) writeLoop(c *client) {
	defer c.conn.Close()
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (a *Api) addClient(c *client) {
	a.mu.Lock()
	a.clients[c] = true
	a.mu.Unlock()
}

func (a *Api) removeClient(c *client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clients[c] {
		delete(a.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected websocket clients.
func (a *Api) Clients() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.clients)
}

// Broadcast queues status for every websocket client. Slow clients miss
// updates rather than stalling the caller.
func (a *Api) Broadcast(status stream.Status) {
	b, err := json.Marshal(status)
	if err != nil {
		log.Printf("Encoding status: %v", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for c := range a.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}

// Serve listens on the configured address until ctx is done.
func (a *Api) Serve(ctx context.Context) error {
	server := &http.Server{Addr: a.addr, Handler: a.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API shutdown: %v", err)
		}
	}()

	log.Printf("Listening on %s...", a.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close disconnects every websocket client.
func (a *Api) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for c := range a.clients {
		delete(a.clients, c)
		close(c.send)
	}
}
