// Package inspector serves a single page, to a single client, over a single
// websocket, streaming the diagnostic events a zmec.Build/LiftStrategy call
// emits (internal/diag). It is adapted from the teacher's single-page
// training visualizer: same websocket bootstrap, same ping/pong liveness
// handling, same throttled publish loop — but the payload is a quotient
// construction's event log instead of a grid of cell values, so there is
// only one view and no fastview/cell_views layering to carry along.
//
// Intentionally minimal: one client, one page, no auth. This is a debug
// aid for watching a construction run, not a production dashboard.
package inspector

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"go.uber.org/zap"

	"github.com/niceyeti/zmecquotient/internal/diag"
)

var upgrader = websocket.Upgrader{}

const (
	writeWait      = 1 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
	pubResolution  = 100 * time.Millisecond
)

// Server serves the construction event log produced by a *diag.ChanSink.
type Server struct {
	addr   string
	events *diag.ChanSink
	log    *zap.Logger
}

// New returns an inspector bound to addr, reading events from sink. A nil
// logger is treated as zap.NewNop().
func New(addr string, sink *diag.ChanSink, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{addr: addr, events: sink, log: logger}
}

// Serve blocks, serving the index page and the websocket event stream.
func (s *Server) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWebsocket)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("inspector: serve: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if err := renderIndex(w); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

func renderIndex(w io.Writer) error {
	t, err := template.New("index.html").Parse(indexTemplate)
	if err != nil {
		return err
	}
	return t.Execute(w, nil)
}

const indexTemplate = `
<!DOCTYPE html>
<html>
<head>
	<link rel="icon" href="data:,">
	<script>
		const ws = new WebSocket("ws://" + location.host + "/ws");
		ws.onmessage = function (event) {
			const events = JSON.parse(event.data);
			const log = document.getElementById("log");
			for (const e of events) {
				const line = document.createElement("div");
				line.textContent = e.Kind + ": " + e.Detail;
				log.appendChild(line);
			}
		};
	</script>
</head>
<body>
	<h1>zmec construction log</h1>
	<div id="log"></div>
</body>
</html>
`

// serveWebsocket publishes diag.Event batches to the client until either
// side closes the connection. Assumes a single client, like the teacher's
// original: this is a development aid, not a multi-tenant server.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.log.Warn("inspector: upgrade failed", zap.Error(err))
		return
	}
	defer closeWebsocket(ws)

	s.publish(r.Context(), ws)
}

func (s *Server) publish(ctx context.Context, ws *websocket.Conn) {
	pubCtx, cancelPub := context.WithCancel(ctx)
	defer cancelPub()

	pinger := channerics.NewTicker(pubCtx.Done(), pingPeriod)
	lastPong := time.Now()
	pong := make(chan struct{}, 1)

	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	go func() {
		for {
			select {
			case <-pubCtx.Done():
				return
			default:
				if _, _, err := ws.ReadMessage(); err != nil {
					cancelPub()
					return
				}
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case evt, ok := <-s.events.Events():
			if !ok {
				return
			}
			if time.Since(last) < pubResolution {
				continue
			}
			last = time.Now()
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON([]diag.Event{evt}); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	ws.Close()
}
