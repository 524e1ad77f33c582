// Package server accepts connections and hands each one to a webtty
// session. HTTP here is bootstrap only: one websocket endpoint plus a
// minimal index page.
package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"webttyd/webtty"
)

// Server listens for websocket connections and runs one terminal
// session per connection.
type Server struct {
	factory webtty.SlaveFactory
	options *Options

	title    string
	upgrader *websocket.Upgrader
	limiter  *authLimiter

	connections int64
	shutdown    context.CancelFunc
}

// New builds a Server. command is the argv the factory spawns, used
// only for the window title.
func New(factory webtty.SlaveFactory, command []string, options *Options) (*Server, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	title := strings.NewReplacer(
		"{command}", strings.Join(command, " "),
		"{hostname}", hostname,
	).Replace(options.TitleFormat)

	server := &Server{
		factory: factory,
		options: options,
		title:   title,
		limiter: newAuthLimiter(),
	}
	server.upgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Subprotocols:    webtty.Protocols,
		CheckOrigin:     server.checkOrigin,
	}
	return server, nil
}

func (server *Server) checkOrigin(r *http.Request) bool {
	if !server.options.CheckOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return strings.Contains(origin, r.Host)
}

// Run serves until ctx is canceled or, with the once option, until the
// first session ends.
func (server *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	server.shutdown = cancel

	go server.limiter.cleanupLoop(ctx)

	mux := http.NewServeMux()
	mux.Handle("/", gziphandler.GzipHandler(http.HandlerFunc(server.handleIndex)))
	mux.HandleFunc("/ws", server.generateHandleWS(ctx))

	var handler http.Handler = server.wrapLogger(server.wrapHeaders(mux))
	if server.options.EnableBasicAuth {
		handler = server.wrapBasicAuth(handler, server.options.Credential)
	}

	addr := net.JoinHostPort(server.options.Address, server.options.Port)
	srv := &http.Server{Addr: addr, Handler: handler}

	srvErrs := make(chan error, 1)
	go func() {
		srvErrs <- srv.ListenAndServe()
	}()
	log.Printf("listening on %s, command: %s", addr, server.title)

	select {
	case err := <-srvErrs:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("failed to shut down cleanly: %v", err)
		}
		return nil
	}
}
