package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
)

// WSHandler streams a user's report over a websocket, resending it every time
// a submission for that user is stored.
type WSHandler struct {
	reports  *app.ReportService
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewWSHandler(reports *app.ReportService, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		reports: reports,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	payload := errorPayload{Code: codeInternal, Message: err.Error()}
	var derr *domain.Error
	if errors.As(err, &derr) {
		payload.Code = string(derr.Kind)
	}
	return outboundMessage[any]{Type: "error", Payload: payload}
}

// ServeReport upgrades the request and pushes "report" messages until the
// client goes away. Inbound frames are read only to notice the close.
func (h *WSHandler) ServeReport(c *gin.Context) {
	userName := c.Param("user")
	ctx := c.Request.Context()
	log := h.log.WithField("user", userName)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	// Subscribe before the first report so no submission slips in between.
	updates, cancel, err := h.reports.Watch(ctx, userName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()

	report, err := h.reports.UserReport(ctx, userName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("ws write failed")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
				var msg outboundMessage[any]
				if report, err := h.reports.UserReport(ctx, userName); err != nil {
					msg = errorMessage(err)
				} else {
					msg = outboundMessage[any]{Type: "report", Payload: report}
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "report", Payload: report}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
