package webserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/hub"
	"github.com/querysync/querysync/src/api/types"
)

type Questions struct {
	db       *gorm.DB
	hub      *hub.Hub
	notifier Notifier
}

func NewQuestions(db *gorm.DB, h *hub.Hub, n Notifier) Questions {
	return Questions{db: db, hub: h, notifier: n}
}

// List returns the board: escalated questions first, then newest first.
func (h Questions) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := c.Query("status")
	if status != "" && !types.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid status filter"})
		return
	}

	questions, err := data.ListQuestions(h.db, limit, offset, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(questions))
	for i := range questions {
		out = append(out, questionOut(&questions[i], len(questions[i].Answers)))
	}
	c.JSON(http.StatusOK, out)
}

func (h Questions) Create(c *gin.Context) {
	var req struct {
		Message     string  `json:"message" binding:"required,max=5000"`
		GuestName   *string `json:"guest_name" binding:"omitempty,max=100"`
		IsEscalated bool    `json:"is_escalated"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	message := sanitizer.Sanitize(strings.TrimSpace(req.Message))
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Question message cannot be empty"})
		return
	}

	var userID *uint64
	if u := currentUser(c); u != nil {
		userID = &u.ID
	}

	q, err := data.CreateQuestion(h.db, userID, req.GuestName, message, req.IsEscalated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	out := questionOut(q, 0)
	h.hub.Broadcast("new_question", out)

	if req.IsEscalated {
		guest := "Anonymous"
		if q.GuestName != nil && *q.GuestName != "" {
			guest = *q.GuestName
		}
		h.hub.Broadcast("urgent_question", gin.H{
			"question_id": q.ID,
			"guest_name":  guest,
			"message":     truncateRunes(q.Message, 100),
			"created_at":  isoTime(q.CreatedAt),
		})

		escalatedAt := q.CreatedAt
		if q.EscalatedAt != nil {
			escalatedAt = *q.EscalatedAt
		}
		h.notifyEscalated(q, guest, isoTime(escalatedAt))
	}

	c.JSON(http.StatusCreated, out)
}

func (h Questions) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}

	q, err := data.GetQuestion(h.db, id)
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	out := questionOut(q, len(q.Answers))
	out["answers"] = BuildAnswerTree(q.Answers, nil)
	c.JSON(http.StatusOK, out)
}

// SetStatus drives the question state machine and fires the post-commit side
// effects: status_change push plus admin notifications on ANSWERED/ESCALATED.
func (h Questions) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=PENDING ESCALATED ANSWERED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	q, err := data.SetStatus(h.db, id, req.Status)
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	h.hub.Broadcast("status_change", gin.H{
		"question_id":  q.ID,
		"status":       q.Status,
		"escalated_at": q.EscalatedAt,
		"answered_at":  q.AnsweredAt,
	})

	switch q.Status {
	case types.StatusAnswered:
		if h.notifier != nil {
			admins := h.adminEmails()
			h.notifier.NotifyAnswered(q.ID, q.Message, isoOrEmpty(q.AnsweredAt), len(q.Answers), admins)
		}
	case types.StatusEscalated:
		// Admin-initiated escalation of a nameless question reads "Admin",
		// unlike the guest-submitted path which reads "Anonymous".
		guest := "Admin"
		if q.GuestName != nil && *q.GuestName != "" {
			guest = *q.GuestName
		}
		h.notifyEscalated(q, guest, isoOrEmpty(q.EscalatedAt))
	}

	c.JSON(http.StatusOK, questionOut(q, len(q.Answers)))
}

func (h Questions) notifyEscalated(q *types.Question, guest, escalatedAt string) {
	if h.notifier == nil {
		return
	}
	h.notifier.NotifyEscalated(q.ID, q.Message, guest, escalatedAt, h.adminEmails())
}

func (h Questions) adminEmails() []string {
	admins, err := data.AllAdminEmails(h.db)
	if err != nil {
		log.Printf("failed to load admin emails: %v", err)
		return nil
	}
	return admins
}
