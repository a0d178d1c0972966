package adminController

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/database"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hub := realtime.NewHub(nil)
	repo := cart.NewGormRepository(db, hub)
	h := &Handler{Orders: repo, Hub: hub}

	r := gin.New()
	r.GET("/live", h.LiveDashboard)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live?range=30d"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() LiveMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg LiveMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	snapshot := read()
	assert.EqualValues(t, "30d", snapshot.Range)
	assert.Zero(t, snapshot.Summary.TotalOrders)

	ctx := context.Background()
	item, err := repo.Upsert(ctx, cart.Scope{SessionID: "session_a"}, models.CartItem{
		ServiceSlug: "joki-coding", ServiceTitle: "Joki Coding", PackageName: "Website",
		Price: 1500000, Quantity: 1,
	})
	require.NoError(t, err)

	msg := read()
	assert.Equal(t, 1, msg.Summary.TotalOrders)
	assert.Equal(t, 1, msg.Summary.PendingOrders)

	_, err = repo.SetStatus(ctx, item.ID, models.OrderStatusSuccess)
	require.NoError(t, err)
	msg = read()
	assert.Equal(t, 1, msg.Summary.SuccessfulOrders)
	assert.EqualValues(t, 1500000, msg.Summary.TotalRevenue)

	require.NoError(t, repo.DeleteOrder(ctx, item.ID))
	msg = read()
	assert.Zero(t, msg.Summary.TotalOrders)
}

func TestLiveDashboard_BadRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Hub: realtime.NewHub(nil)}
	r := gin.New()
	r.GET("/live", h.LiveDashboard)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/live?range=1y", nil))
	assert.Equal(t, 400, w.Code)
}
