// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"parlor/internal/models"
	"parlor/internal/notifications"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles the single anonymous event socket. Every
// connection receives the full broadcast stream; inbound frames carry live
// chat messages.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		client, err := s.hub.Register(conn, s.config.WSWindowMillis, s.config.WSMaxMessages)
		if err != nil {
			log.Printf("WebSocket: failed to register connection: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, raw []byte) {
			var frame struct {
				Type string          `json:"type"`
				Data json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(raw, &frame); err != nil {
				log.Printf("WebSocket: invalid frame: %v", err)
				return
			}

			switch frame.Type {
			case "message":
				// Per-socket sliding window; excess frames are dropped
				// silently and do not extend the window.
				if !c.Allow() {
					return
				}

				var payload struct {
					Author   string `json:"author,omitempty"`
					Text     string `json:"text"`
					ImageURL string `json:"image,omitempty"`
				}
				if err := json.Unmarshal(frame.Data, &payload); err != nil {
					return
				}

				message, err := s.chatService.AppendMessage(ctx, service.AppendChatInput{
					Author:   payload.Author,
					Text:     payload.Text,
					ImageURL: payload.ImageURL,
				})
				if err != nil {
					// Blocked and invalid submissions bounce back to the
					// offending socket only; the rest of the room never
					// learns a submission happened.
					var appErr *models.AppError
					if errors.As(err, &appErr) && appErr.Code == models.CodeBlocked {
						if out, merr := encodeEvent(EventError, fiber.Map{"error": "blocked"}); merr == nil {
							c.TrySend(out)
						}
						return
					}
					log.Printf("WebSocket: chat append failed: %v", err)
					return
				}

				s.publishEvent(EventMessage, message)
			}
		}

		// New sockets get the current chat window before any live events.
		if history, err := s.chatService.History(ctx); err == nil {
			if out, merr := encodeEvent(EventHistory, history); merr == nil {
				client.TrySend(out)
			}
		} else {
			log.Printf("WebSocket: failed to load chat history: %v", err)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()
	})
}
