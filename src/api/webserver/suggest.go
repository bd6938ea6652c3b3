package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/hub"
	"github.com/querysync/querysync/src/api/suggest"
)

type Suggest struct {
	db       *gorm.DB
	hub      *hub.Hub
	provider SuggestProvider
}

func NewSuggest(db *gorm.DB, h *hub.Hub, provider SuggestProvider) Suggest {
	return Suggest{db: db, hub: h, provider: provider}
}

// Suggest drafts an answer for the question and pushes it to every dashboard.
func (h Suggest) Suggest(c *gin.Context) {
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

	previous := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		previous = append(previous, a.Message)
	}

	suggestion, err := h.provider.SuggestAnswer(c.Request.Context(), q.Message, previous)
	if errors.Is(err, suggest.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "suggestion service unavailable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	h.hub.Broadcast("suggestion", gin.H{
		"question_id":      q.ID,
		"suggested_answer": suggestion,
	})

	c.JSON(http.StatusOK, gin.H{"question_id": q.ID, "suggested_answer": suggestion})
}
