package middleware

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/formatting"
	"github.com/JaimeStill/keepsake/pkg/handlers"
)

// MaxBody limits request bodies to limit bytes. A declared Content-Length over
// the limit is refused with 413 up front; otherwise reads past the limit fail,
// which request decoding reports as an invalid body.
func MaxBody(limit int64) func(http.Handler) http.Handler {
	tooLarge := fmt.Errorf("request body exceeds %s", formatting.FormatBytes(limit, 0))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				handlers.RespondJSON(w, http.StatusRequestEntityTooLarge, handlers.ErrorResponse{Error: tooLarge.Error()})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
