package config

import (
	"os"
	"strings"
)

type Config struct {
	MySQLDSN       string
	RedisURL       string
	JWTSecret      string
	Port           string
	AllowedOrigins []string

	// SMTP for admin notifications and OTP mail
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Outbound webhook for answered/escalated events
	WebhookURL string

	// Optional Discord channel announce
	DiscordToken   string
	DiscordChannel string

	// Groq key for answer suggestions
	GroqAPIKey string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	origins := strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		MySQLDSN:       getenv("MYSQL_DSN", "querysync:querysync@tcp(localhost:3306)/querysync?parseTime=true"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      getenv("JWT_SECRET", "change-me-in-production"),
		Port:           getenv("PORT", "8000"),
		AllowedOrigins: origins,
		SMTPHost:       getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getenv("SMTP_PORT", "587"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASSWORD"),
		EmailFrom:      getenv("EMAIL_FROM", "noreply@querysync.ai"),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordChannel: os.Getenv("DISCORD_CHANNEL_ID"),
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
	}
}
