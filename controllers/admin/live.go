package adminController

import (
	"net/http"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/dashboard"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	// admin routes are already token-gated
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// LiveMessage is one push on the live dashboard socket.
type LiveMessage struct {
	Range   dashboard.Range   `json:"range"`
	Summary dashboard.Summary `json:"summary"`
}

// GET /admin/dashboard/live?range=&token=
//
// Sends a snapshot, then a fresh summary after every cart change that
// affects the selected range.
func (h *Handler) LiveDashboard(c *gin.Context) {
	log := logger.FromGin(c)

	rng, err := dashboard.ParseRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of all, 7d, 30d, 90d"})
		return
	}

	// subscribe before loading so no change between the two is missed
	events, cancel := h.Hub.Subscribe(cart.Table)
	defer cancel()

	items, err := h.ordersIn(c.Request.Context(), rng)
	if err != nil {
		log.Error("failed to load dashboard orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	set := dashboard.NewLiveSet(rng, items, nil)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v any) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v) == nil
	}
	if !send(LiveMessage{Range: rng, Summary: set.Summary()}) {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if set.Apply(ev) && !send(LiveMessage{Range: rng, Summary: set.Summary()}) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
