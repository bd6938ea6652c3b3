package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/config"
	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/hub"
	"github.com/querysync/querysync/src/api/notify"
	"github.com/querysync/querysync/src/api/suggest"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, h *hub.Hub, n *notify.Notifier, sg *suggest.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, h, deps{
		otp:      data.NewOTPStore(rdb),
		mailer:   n,
		notifier: n,
		provider: sg,
	})
	return g
}
