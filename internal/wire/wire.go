package wire

import (
	"Microblog/internal/api"
	"Microblog/internal/api/config"
	"Microblog/internal/api/handler"
	"Microblog/internal/job"
	"Microblog/internal/pkg/cron"
	"Microblog/internal/pkg/es"
	"Microblog/internal/pkg/kafka"
	"Microblog/internal/repository"
	"Microblog/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // kafka.enable 关闭时为 nil
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	// es.Client 为 nil 时搜索关闭，帖子不写索引
	var postESRepo es.PostRepo
	if es.Client != nil {
		postESRepo = es.NewPostRepo(es.Client)
	}

	notificationService := service.NewNotificationService(db)
	userService := service.NewUserService(db)
	userFollowService := service.NewUserFollowService(db)
	postService := service.NewPostService(db, postESRepo)
	messageService := service.NewMessageService(db, notificationService)

	handlers := &api.HandlersGroup{
		AuthHandler:         handler.NewAuthHandler(userService),
		UserHandler:         handler.NewUserHandler(userService, userFollowService, postService),
		UserFollowHandler:   handler.NewUserFollowHandler(userService, userFollowService),
		PostHandler:         handler.NewPostHandler(postService),
		MessageHandler:      handler.NewMessageHandler(userService, messageService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		WSHandler:           handler.NewWsHandler(),
		UserService:         userService,
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		LoginLimit:     cfg.RateLimit.LoginLimit,
		LoginWindow:    time.Duration(cfg.RateLimit.LoginWindow) * time.Second,
		MetricsEnabled: cfg.Metrics.Enable,
		CorsOrigins:    cfg.Server.CorsOrigins,
	})

	cronMgr := cron.NewCronManager(cfg.Cron.LastSeenSpec, job.NewLastSeenJob(userService))

	app := &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}

	if cfg.Kafka.Enable {
		// 帖子索引消费者仅在 ES 可用时启动
		var postsHandler *kafka.PostsHandler
		if postESRepo != nil {
			postsHandler = kafka.NewPostsHandler(repository.NewUserRepo(db), postESRepo)
		}
		kafkaMgr, err := kafka.NewConsumerManager(cfg, kafka.NewMessagesHandler(messageService), postsHandler)
		if err != nil {
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}
