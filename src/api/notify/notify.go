// Package notify delivers best-effort admin notifications (email, webhook,
// optional Discord announce) off the request path. Failures are logged and
// never surfaced to the caller.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/querysync/querysync/src/api/config"
)

type job struct {
	id   string
	name string
	run  func(ctx context.Context)
}

type Notifier struct {
	cfg     config.Config
	jobs    chan job
	done    chan struct{}
	discord *discordgo.Session
}

func New(cfg config.Config) *Notifier {
	n := &Notifier{
		cfg:  cfg,
		jobs: make(chan job, 64),
		done: make(chan struct{}),
	}
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		s, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			log.Printf("notify: discord session: %v", err)
		} else {
			n.discord = s
		}
	}
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	for {
		select {
		case j := <-n.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			j.run(ctx)
			cancel()
		case <-n.done:
			return
		}
	}
}

// enqueue hands a task to the worker without ever blocking the request path.
func (n *Notifier) enqueue(name string, run func(ctx context.Context)) {
	j := job{id: uuid.NewString(), name: name, run: run}
	select {
	case n.jobs <- j:
	default:
		log.Printf("notify: queue full, dropping job %s (%s)", j.id, name)
	}
}

func (n *Notifier) Close() { close(n.done) }

// NotifyAnswered tells every admin that a question was marked as answered.
func (n *Notifier) NotifyAnswered(questionID uint64, message, answeredAt string, answersCount int, admins []string) {
	n.enqueue("question_answered", func(ctx context.Context) {
		n.sendWebhook(ctx, "question_answered", map[string]interface{}{
			"question_id":   questionID,
			"status":        "ANSWERED",
			"answered_at":   answeredAt,
			"answers_count": answersCount,
		})

		subject := fmt.Sprintf("[QuerySync] Question #%d Answered", questionID)
		body := fmt.Sprintf(`A question has been marked as answered.

Question ID: %d
Question: %s
Answered at: %s
Total answers: %d

View the full question in the QuerySync dashboard.
`, questionID, truncate(message, 200), answeredAt, answersCount)
		if err := n.SendEmail(admins, subject, body); err != nil {
			log.Printf("notify: answered email: %v", err)
		}

		n.sendDiscord(fmt.Sprintf("Question #%d was marked as answered (%d answers).", questionID, answersCount))
	})
}

// NotifyEscalated alerts every admin that a question needs immediate attention.
func (n *Notifier) NotifyEscalated(questionID uint64, message, guestName, escalatedAt string, admins []string) {
	n.enqueue("question_escalated", func(ctx context.Context) {
		n.sendWebhook(ctx, "question_escalated", map[string]interface{}{
			"question_id":  questionID,
			"status":       "ESCALATED",
			"escalated_at": escalatedAt,
			"guest_name":   guestName,
		})

		subject := fmt.Sprintf("[QuerySync] URGENT: Question #%d Escalated!", questionID)
		body := fmt.Sprintf(`A question has been ESCALATED and requires immediate attention!

Question ID: %d
Asked by: %s
Escalated at: %s

Question:
%s

Please review this question in the QuerySync dashboard as soon as possible.
`, questionID, guestName, escalatedAt, message)
		if err := n.SendEmail(admins, subject, body); err != nil {
			log.Printf("notify: escalation email: %v", err)
		}

		n.sendDiscord(fmt.Sprintf("URGENT: question #%d escalated by %s.", questionID, guestName))
	})
}

func (n *Notifier) sendDiscord(content string) {
	if n.discord == nil {
		return
	}
	if _, err := n.discord.ChannelMessageSend(n.cfg.DiscordChannel, content); err != nil {
		log.Printf("notify: discord send: %v", err)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
