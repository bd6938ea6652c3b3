package webserver

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/config"
	"github.com/querysync/querysync/src/api/hub"
)

// OTPStore is the slice of the redis-backed code store the auth handlers use.
type OTPStore interface {
	Set(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	MarkVerified(ctx context.Context, email string) error
	IsVerified(ctx context.Context, email string) bool
	Clear(ctx context.Context, email string)
}

// Mailer sends a message synchronously; the OTP flow needs to see the error.
type Mailer interface {
	SendEmail(to []string, subject, body string) error
}

// Notifier enqueues fire-and-forget admin notifications.
type Notifier interface {
	NotifyAnswered(questionID uint64, message, answeredAt string, answersCount int, admins []string)
	NotifyEscalated(questionID uint64, message, guestName, escalatedAt string, admins []string)
}

// SuggestProvider drafts an answer for a question.
type SuggestProvider interface {
	SuggestAnswer(ctx context.Context, question string, previousAnswers []string) (string, error)
}

type deps struct {
	otp      OTPStore
	mailer   Mailer
	notifier Notifier
	provider SuggestProvider
}

func attachRoutes(g *gin.Engine, cfg config.Config, db *gorm.DB, h *hub.Hub, d deps) {
	g.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(db, d.otp, d.mailer, secret)
	questionH := NewQuestions(db, h, d.notifier)
	answerH := NewAnswers(db, h)
	suggestH := NewSuggest(db, h, d.provider)
	adminH := NewAdmin(db)
	wsH := NewWS(h)

	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "querysync-backend"})
	})
	g.GET("/ws", wsH.Handle)

	v1 := g.Group("/v1")
	{
		v1.POST("/auth/register", authH.Register)
		v1.POST("/auth/login", authH.Login)
		v1.POST("/auth/otp/request", authH.RequestOTP)
		v1.POST("/auth/otp/verify", authH.VerifyOTP)

		v1.GET("/questions", questionH.List)
		v1.POST("/questions", OptionalAuth(secret, db), questionH.Create)
		v1.GET("/questions/:id", questionH.Get)
		v1.PATCH("/questions/:id/status", JWTMiddleware(secret, db), RequireAdmin(), questionH.SetStatus)
		v1.POST("/questions/:id/answers", OptionalAuth(secret, db), answerH.Create)
		v1.POST("/questions/:id/answers/:answerID/rate", JWTMiddleware(secret, db), RequireAdmin(), answerH.Rate)
		v1.POST("/questions/:id/suggest", JWTMiddleware(secret, db), RequireAdmin(), suggestH.Suggest)

		admin := v1.Group("/admin", JWTMiddleware(secret, db), RequireAdmin())
		admin.GET("/stats", adminH.Stats)
	}
}
