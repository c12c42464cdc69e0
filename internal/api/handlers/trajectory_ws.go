package handlers

import (
	"net/http"
	"robot-route-service/internal/api/dto"
	"robot-route-service/internal/domain"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

const (
	defaultFrameInterval = 200 * time.Millisecond
	maxFrameInterval     = 5 * time.Second
	writeWait            = 5 * time.Second
)

// TrajectoryStream plays the trajectory animation over a websocket: every
// original frame, then every optimized frame, then a final done frame.
// ?interval_ms= sets the delay between frames.
func (h *RobotHandler) TrajectoryStream(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	interval := durationParam(r, "interval_ms", defaultFrameInterval, maxFrameInterval)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := r.Context()
	send := func(f dto.TrajectoryFrame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(f); err != nil {
			logrus.WithFields(logrus.Fields{"err": err}).Debug("trajectory stream write failed")
			return false
		}
		return true
	}

	series := []struct {
		name   string
		points []domain.Point
	}{
		{"original", view.OriginalCoords},
		{"optimized", view.OptimizedCoords},
	}

	for _, s := range series {
		for i, p := range s.points {
			if !send(dto.TrajectoryFrame{Series: s.name, Index: i, Point: toPoint(p)}) {
				return
			}
			if interval > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(interval):
				}
			}
		}
	}

	if send(dto.TrajectoryFrame{Done: true}) {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
			time.Now().Add(writeWait),
		)
	}
}
