package mid

import (
	"context"
	"net/http"

	"github.com/subaquatic-pierre/nebula/foundation/web"
)

// Cors allows browsers on origin to call the node api. The api only takes
// GET and POST with json bodies, and preflight requests are answered here
// with no content.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Add("Vary", "Origin")

			if r.Method != http.MethodOptions {
				return handler(ctx, w, r)
			}

			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			hdr.Set("Access-Control-Max-Age", "86400")

			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		return h
	}

	return m
}
