package shell

import (
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/dmitrijs2005/wardminutes/internal/logging"
)

// MessagePath accepts control messages for the worker as a POST body.
const MessagePath = "/__shell/message"

// NewProxy serves upstream through w.
func NewProxy(w *Worker, upstream *url.URL, log logging.Logger) *httputil.ReverseProxy {
	if log == nil {
		log = logging.Nop{}
	}
	p := httputil.NewSingleHostReverseProxy(upstream)
	p.Transport = w
	p.ErrorHandler = func(rw http.ResponseWriter, r *http.Request, err error) {
		log.Warn(r.Context(), "shell request failed", "url", r.URL.String(), "error", err)
		http.Error(rw, "offline and not cached", http.StatusBadGateway)
	}
	return p
}

// NewHandler routes control messages to w and everything else through the
// proxy.
func NewHandler(w *Worker, upstream *url.URL, log logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+MessagePath, func(rw http.ResponseWriter, r *http.Request) {
		msg, err := io.ReadAll(io.LimitReader(r.Body, 1024))
		if err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		if err := w.Message(r.Context(), string(msg)); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		rw.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/", NewProxy(w, upstream, log))
	return mux
}
