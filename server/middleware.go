package server

import (
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
)

type logResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *logResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (server *Server) wrapLogger(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &logResponseWriter{w, 200}
		handler.ServeHTTP(rw, r)
		log.Printf("%s %d %s %s", r.RemoteAddr, rw.status, r.Method, r.URL.Path)
	})
}

func (server *Server) wrapHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "webttyd")
		handler.ServeHTTP(w, r)
	})
}

// wrapBasicAuth guards handler with HTTP basic authentication against
// the configured credential, throttled by the server's auth limiter.
func (server *Server) wrapBasicAuth(handler http.Handler, credential string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if locked, remaining, tier := server.limiter.locked(ip); locked {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(remaining.Seconds())+1))
			log.Printf("auth locked out (%s tier): %s, retry in %v", tier, ip, remaining)
			http.Error(w, "Too many failed login attempts. Try again later.", http.StatusTooManyRequests)
			return
		}

		token := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(token) != 2 || strings.ToLower(token[0]) != "basic" {
			w.Header().Set("WWW-Authenticate", `Basic realm="webttyd"`)
			http.Error(w, "Bad Request", http.StatusUnauthorized)
			return
		}

		payload, err := base64.StdEncoding.DecodeString(token[1])
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if credential != string(payload) {
			server.limiter.failure(ip)
			w.Header().Set("WWW-Authenticate", `Basic realm="webttyd"`)
			http.Error(w, "Authorization failed", http.StatusUnauthorized)
			return
		}

		server.limiter.success(ip)
		log.Printf("basic authentication succeeded: %s", r.RemoteAddr)
		handler.ServeHTTP(w, r)
	})
}

// clientIP extracts the originating address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			if host, _, err := net.SplitHostPort(first); err == nil {
				return strings.Trim(host, "[]")
			}
			return strings.Trim(first, "[]")
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return strings.Trim(realIP, "[]")
	}

	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil {
		return strings.Trim(host, "[]")
	}
	return strings.Trim(strings.TrimSpace(r.RemoteAddr), "[]")
}
