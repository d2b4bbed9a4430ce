package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeprep/internal/services"
	"github.com/yoockh/resumeprep/internal/utils"
)

type WSHandler struct {
	interviews services.InterviewService
	redis      *redis.Client
	log        *logrus.Logger
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService, rdb *redis.Client, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		redis:      rdb,
		log:        log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin once the frontend host is fixed
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"` // draft|submit
	Text string `json:"text"`
}

type wsServerMsg struct {
	Type    string     `json:"type"`
	Code    utils.Code `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(m wsServerMsg) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (w *wsConn) writeErr(err error) error {
	return w.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeOf(err), Message: utils.PublicMessage(err)})
}

// InterviewWS streams status events of one session and accepts draft and
// submit messages from the candidate.
func (h *WSHandler) InterviewWS(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	snap, err := h.interviews.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.StatusChannel(sessionID))
	defer pubsub.Close()

	_ = wc.writeJSON(wsServerMsg{Type: "snapshot", Data: snap})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler.InterviewWS", "invalid json", err))
				continue
			}

			switch msg.Type {
			case "draft":
				if _, err := h.interviews.SetDraft(ctx, sessionID, msg.Text); err != nil {
					_ = wc.writeErr(err)
				}
			case "submit":
				res, err := h.interviews.Submit(ctx, sessionID, msg.Text)
				if err != nil {
					_ = wc.writeErr(err)
					continue
				}
				_ = wc.writeJSON(wsServerMsg{Type: "submitted", Data: res})
			default:
				_ = wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler.InterviewWS", "unknown message type", nil))
			}
		}
	}()

	ch := pubsub.Channel()
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			wc.mu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			wc.mu.Unlock()
			if err != nil {
				return
			}
		case m, open := <-ch:
			if !open {
				return
			}
			// events are already JSON
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				h.log.WithError(werr).WithField("session_id", sessionID).Debug("ws write failed")
				return
			}
		}
	}
}
