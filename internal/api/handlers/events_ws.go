package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const eventPingInterval = 30 * time.Second

// EventStream forwards a robot's live events (recorded deliveries, finished
// optimizer runs) to a websocket client until either side goes away.
func (h *RobotHandler) EventStream(w http.ResponseWriter, r *http.Request) {
	robotID, ok := robotIDFromPath(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "robot id must be a positive integer")
		return
	}
	if _, err := h.Repo.GetRobot(r.Context(), robotID); err != nil {
		writeServiceError(w, r, "event stream", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	// Hijacked connections are not tied to the request context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events, err := h.Subscriber.Subscribe(ctx, robotID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"robot_id": robotID, "err": err}).Warn("event stream subscribe failed")
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait),
		)
		return
	}

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				logrus.WithFields(logrus.Fields{"robot_id": robotID, "err": err}).Debug("event stream write failed")
				return
			}
		}
	}
}
