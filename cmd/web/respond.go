package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oakmart/storefront-web/internal/notice"
)

// withNotices attaches a per-request notice buffer so core operations can
// surface user-visible messages; the buffer is drained into the response
// envelope.
func withNotices(r *http.Request) (context.Context, *notice.Buffer) {
	buf := &notice.Buffer{}
	return notice.NewContext(r.Context(), buf), buf
}

type envelope struct {
	Data    any             `json:"data,omitempty"`
	Notices []notice.Notice `json:"notices,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, notices []notice.Notice) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data, Notices: notices})
}
