package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReadMarker struct {
	mock.Mock
}

func (m *MockReadMarker) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockReadMarker) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReadMarker) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func startServer(t *testing.T, hub *Hub, userID int64) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(hub, nil, zerolog.New(io.Discard))
	r.GET("/ws", func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	}, h.HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHub_SendToUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.New(io.Discard))
	var lastCount int
	hub.OnClientCountChange(func(n int) { lastCount = n })
	go hub.Run(ctx)

	url := startServer(t, hub, 42)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.GetClientsCount(42) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, lastCount)

	hub.SendToUser(42, &Message{Type: MessageTypeNotification, Data: map[string]string{"title": "New policy"}})
	hub.SendToUser(7, &Message{Type: MessageTypeNotification, Data: "not for you"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MessageTypeNotification, msg.Type)
	assert.Equal(t, "New policy", msg.Data.(map[string]interface{})["title"])
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHandleConnection_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ws", nil)

	NewHandler(NewHub(zerolog.New(io.Discard)), nil, zerolog.New(io.Discard)).HandleConnection(c)
	assert.Equal(t, 401, w.Code)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://hub.inara.org"})

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://hub.inara.org")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(req))
}

func TestMessageHandler_MarkRead(t *testing.T) {
	hub := NewHub(zerolog.New(io.Discard))
	marker := new(MockReadMarker)
	h := NewMessageHandler(marker, hub, zerolog.New(io.Discard))

	marker.On("MarkRead", mock.Anything, int64(5), int64(99)).Return(nil)
	marker.On("UnreadCount", mock.Anything, int64(5)).Return(int64(3), nil)

	h.Handle(context.Background(), &Message{Type: MessageTypeMarkRead, UserID: 5, ID: 99})

	d := <-hub.deliver
	assert.Equal(t, int64(5), d.userID)
	assert.Contains(t, string(d.data), `"type":"unread_count"`)
	assert.Contains(t, string(d.data), `"data":3`)
	marker.AssertExpectations(t)
}

func TestMessageHandler_IgnoresUnknownTypes(t *testing.T) {
	hub := NewHub(zerolog.New(io.Discard))
	marker := new(MockReadMarker)
	h := NewMessageHandler(marker, hub, zerolog.New(io.Discard))

	h.Handle(context.Background(), &Message{Type: "chat", UserID: 5})

	marker.AssertNotCalled(t, "UnreadCount", mock.Anything, mock.Anything)
	assert.Len(t, hub.deliver, 0)
}
