package http

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

func RegisterIndexHandler(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
}
