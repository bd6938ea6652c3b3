package webserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/querysync/querysync/src/api/types"
)

// Message bodies are plain text; strip any markup before storing.
var sanitizer = bluemonday.StrictPolicy()

func questionOut(q *types.Question, answersCount int) gin.H {
	return gin.H{
		"id":            q.ID,
		"user_id":       q.UserID,
		"guest_name":    q.GuestName,
		"message":       q.Message,
		"status":        q.Status,
		"created_at":    q.CreatedAt,
		"updated_at":    q.UpdatedAt,
		"escalated_at":  q.EscalatedAt,
		"answered_at":   q.AnsweredAt,
		"answers_count": answersCount,
	}
}

func answerOut(a *types.Answer, replies []gin.H) gin.H {
	return gin.H{
		"id":          a.ID,
		"question_id": a.QuestionID,
		"user_id":     a.UserID,
		"parent_id":   a.ParentID,
		"guest_name":  a.GuestName,
		"message":     a.Message,
		"created_at":  a.CreatedAt,
		"upvotes":     a.Upvotes,
		"downvotes":   a.Downvotes,
		"score":       a.Score(),
		"replies":     replies,
	}
}

func userOut(u *types.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

func isoTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func isoOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return isoTime(*t)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
