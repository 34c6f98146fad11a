package handler

import (
	"Microblog/internal/pkg/redis"
	"Microblog/internal/service"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct{}

func NewWsHandler() *WsHandler {
	return &WsHandler{}
}

// Connect 订阅当前用户的通知频道并推送给客户端
func (s *WsHandler) Connect(c *gin.Context) {
	userID := c.GetUint64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx := c.Request.Context()
	pubsub := redis.Subscribe(ctx, service.NotificationChannel(userID))
	defer func() {
		_ = pubsub.Close()
	}()

	log.InfoContext(ctx, "用户 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		defer close(stopChan)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg, ok := <-redisCh:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.ErrorContext(ctx, "WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.InfoContext(ctx, "用户 WS 连接已断开", "userID", userID)
			return
		case <-ctx.Done():
			return
		}
	}
}
