package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"
)

const keepAliveMsg = ":keepalive\n\n"

func formatSSEMessage(ev events.TaskEvent) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ev); err != nil {
		return "", err
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("id: %s\n", ev.ID))
	sb.WriteString(fmt.Sprintf("event: %s\n", ev.Type))
	sb.WriteString(fmt.Sprintf("retry: %d\n", 15000))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", strings.TrimRight(buf.String(), "\n")))
	return sb.String(), nil
}

// HandleTaskEvents godoc
// @Summary Stream the caller's task events (SSE)
// @Tags tasks
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200
// @Router /tasks/events [get]
func (h *Handlers) HandleTaskEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	userID := middleware.UserID(c)
	stream, unsubscribe := h.broker.Subscribe(userID)
	notify := c.Context().Done()
	keepAlive := h.keepAlive
	log.Debugf("SSE session opened for %s", userID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		defer unsubscribe()

		// Comment đầu tiên để client biết stream đã mở.
		fmt.Fprint(w, keepAliveMsg)
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-notify:
				log.Debugf("SSE session closed for %s", userID)
				return
			case ev, ok := <-stream:
				if !ok {
					return
				}
				msg, err := formatSSEMessage(ev)
				if err != nil {
					log.Errorf("format SSE message: %v", err)
					continue
				}
				fmt.Fprint(w, msg)
				if err := w.Flush(); err != nil {
					log.Debugf("SSE flush for %s: %v", userID, err)
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, keepAliveMsg)
				if err := w.Flush(); err != nil {
					log.Debugf("SSE flush for %s: %v", userID, err)
					return
				}
			}
		}
	}))
	return nil
}
