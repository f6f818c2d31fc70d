// internal/server/reload.go
package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// socketPath is where browsers connect to the hub.
const socketPath = "/ws"

const reloadClient = `
<script>
  (function() {
    var socket = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "` + socketPath + `");
    socket.onmessage = function(event) {
      if (event.data === "` + reloadMessage + `") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'stitch serve'.");
    };
  })();
</script>
`

// Middleware serves next with caching disabled. Successful HTML responses
// get the hub's reload client, whatever URL they were served under.
func (h *Hub) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")

		rw := &reloadWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		rw.finish()
	})
}

// reloadWriter decides on the first header write whether the response is
// an HTML page. Pages are held back until finish; everything else streams
// straight through.
type reloadWriter struct {
	http.ResponseWriter
	status int
	page   *bytes.Buffer
}

func (rw *reloadWriter) WriteHeader(status int) {
	if rw.status != 0 {
		return
	}
	rw.status = status
	contentType := rw.Header().Get("Content-Type")
	if status == http.StatusOK && strings.HasPrefix(contentType, "text/html") {
		rw.page = new(bytes.Buffer)
		return
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *reloadWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		if rw.Header().Get("Content-Type") == "" {
			rw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		rw.WriteHeader(http.StatusOK)
	}
	if rw.page != nil {
		return rw.page.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *reloadWriter) finish() {
	if rw.page == nil {
		return
	}
	body := withReloadClient(rw.page.Bytes())
	rw.Header().Set("Content-Length", strconv.Itoa(len(body)))
	rw.ResponseWriter.WriteHeader(rw.status)
	rw.ResponseWriter.Write(body)
}

// withReloadClient places the client before the last </body>, matched
// case-insensitively, or at the end of pages that have none.
func withReloadClient(page []byte) []byte {
	i := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if i < 0 {
		return append(page, reloadClient...)
	}
	out := make([]byte, 0, len(page)+len(reloadClient))
	out = append(out, page[:i]...)
	out = append(out, reloadClient...)
	return append(out, page[i:]...)
}
