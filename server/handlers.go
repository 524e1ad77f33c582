package server

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"

	"webttyd/webtty"
)

func (server *Server) generateHandleWS(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt64(&server.connections, 1)
		defer atomic.AddInt64(&server.connections, -1)

		if max := server.options.MaxConnection; max > 0 && count > int64(max) {
			log.Printf("refused connection from %s: connection limit (%d) reached", r.RemoteAddr, max)
			http.Error(w, "Too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := server.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("failed to upgrade connection from %s: %v", r.RemoteAddr, err)
			return
		}
		defer conn.Close()

		if server.options.Once {
			defer server.shutdown()
		}

		opts := []webtty.Option{
			webtty.WithWindowTitle(server.title),
			webtty.WithPreferences(server.options.Preferences),
		}
		if server.options.PermitWrite {
			opts = append(opts, webtty.WithPermitWrite())
		}
		if server.options.Credential != "" {
			opts = append(opts, webtty.WithCredential(server.options.Credential))
		}
		if server.options.EnableMouseReporting {
			opts = append(opts, webtty.WithMouseReporting())
		}

		wt := webtty.New(&wsWrapper{conn: conn}, server.factory, opts...)
		err = wt.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, webtty.ErrMasterClosed), errors.Is(err, webtty.ErrSlaveClosed):
			// ordinary session endings
		case errors.Is(err, context.Canceled):
		default:
			log.Printf("session from %s ended: %v", r.RemoteAddr, err)
		}
	}
}

func (server *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

// The terminal emulator UI ships separately; the index only points a
// human at the websocket endpoint.
const indexPage = `<!doctype html>
<html>
<head><title>webttyd</title></head>
<body>
<p>webttyd is running. Connect a terminal client to <code>/ws</code>.</p>
</body>
</html>
`
