package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = maxBodySize
)

func (s *Server) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
	if len(s.allowedOrigins) > 0 {
		u.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin) || sameHost(r, origin)
		}
	}
	return u
}

func sameHost(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// wsMessage is an inbound websocket request.
//
//	{"type":"analyze","data":{"image":"data:image/jpeg;base64,..."}}
//	{"type":"search","data":{"foodName":"banana"}}
type wsMessage struct {
	Type string `json:"type"`
	Data struct {
		Image    any `json:"image"`
		FoodName any `json:"foodName"`
	} `json:"data"`
}

type wsReply struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleWebSocket serves analysis over a websocket. Messages on one
// connection are handled one at a time, so a client never has two analyses
// in flight.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer closeWithLog(conn, "websocket", s.logger)

	conn.SetReadLimit(wsMaxMessageSize)
	connID := uuid.NewString()
	s.logger.Info("websocket connected", "conn_id", connID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Error("websocket read failed", "conn_id", connID, "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.writeWS(conn, wsReply{Type: "error", Message: "Invalid message format"})
			continue
		}

		s.writeWS(conn, s.dispatchWS(r.Context(), connID, &msg))
	}
}

func (s *Server) dispatchWS(ctx context.Context, connID string, msg *wsMessage) wsReply {
	id := uuid.NewString()
	ctx = context.WithoutCancel(ctx)

	switch msg.Type {
	case "analyze":
		image, err := imageField(msg.Data.Image)
		if err != nil {
			return wsReply{Type: "error", Message: "No image provided"}
		}
		s.logger.Info("websocket analyze", "conn_id", connID, "request_id", id)
		return wsReply{Type: "result", ID: id, Data: s.analyzer.AnalyzeImage(ctx, image)}
	case "search":
		name, err := foodNameField(msg.Data.FoodName)
		if err != nil {
			return wsReply{Type: "error", Message: "No food name provided"}
		}
		s.logger.Info("websocket search", "conn_id", connID, "request_id", id, "food_name", name)
		return wsReply{Type: "result", ID: id, Data: s.analyzer.SearchFood(ctx, name)}
	default:
		return wsReply{Type: "error", Message: "Unknown message type"}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, reply wsReply) {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		s.logger.Error("set websocket write deadline failed", "error", err)
	}
	if err := conn.WriteJSON(reply); err != nil {
		s.logger.Error("websocket write failed", "type", reply.Type, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
