// path: controllers/stream.go
package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/PaoloBrandonE/Denuncia-app/feed"
	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

const heartbeatEvery = 15 * time.Second

// HandleStreamReports serves the live feed over SSE. Each "snapshot"
// event carries the full ordered list; the client replaces its state
// wholesale on every message. A terminal "error" event means the
// subscription stopped and the client must reconnect to resume.
func HandleStreamReports(c *fiber.Ctx) error {
	user, ok := requireUser(c)
	if !ok {
		return nil
	}

	scope := store.All()
	if c.Query("scope") == "mine" {
		scope = store.Mine(user.ID)
	}
	role := user.Role

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Buffer one snapshot; a newer one always supersedes an unread
		// older one.
		snapshots := make(chan []models.Report, 1)
		f := feed.New(reportsStore, func(rs []models.Report) {
			for {
				select {
				case snapshots <- rs:
					return
				default:
					select {
					case <-snapshots:
					default:
					}
				}
			}
		})
		if err := f.Start(ctx, scope); err != nil {
			writeEvent(w, "error", []byte(fmt.Sprintf("%q", err.Error())))
			return
		}
		defer f.Stop()

		heartbeat := time.NewTicker(heartbeatEvery)
		defer heartbeat.Stop()

		for {
			select {
			case rs := <-snapshots:
				items := make([]ReportItem, 0, len(rs))
				for _, r := range rs {
					items = append(items, toItem(r, role))
				}
				payload, err := json.Marshal(items)
				if err != nil {
					log.Printf("stream: marshal snapshot: %v", err)
					return
				}
				if !writeEvent(w, "snapshot", payload) {
					return
				}
				if msg := f.Err(); msg != "" {
					writeEvent(w, "error", []byte(fmt.Sprintf("%q", msg)))
					return
				}
			case <-heartbeat.C:
				if msg := f.Err(); msg != "" {
					writeEvent(w, "error", []byte(fmt.Sprintf("%q", msg)))
					return
				}
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, data []byte) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return false
	}
	return w.Flush() == nil
}
