package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/hub"
)

type Answers struct {
	db  *gorm.DB
	hub *hub.Hub
}

func NewAnswers(db *gorm.DB, h *hub.Hub) Answers {
	return Answers{db: db, hub: h}
}

// Create posts an answer, optionally threaded under parent_id. Guests and
// logged-in users are both accepted.
func (h Answers) Create(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}

	var req struct {
		Message   string  `json:"message" binding:"required,max=5000"`
		GuestName *string `json:"guest_name" binding:"omitempty,max=100"`
		ParentID  *uint64 `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if _, err := data.GetQuestion(h.db, questionID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	message := sanitizer.Sanitize(strings.TrimSpace(req.Message))
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "Answer message cannot be empty"})
		return
	}

	var userID *uint64
	if u := currentUser(c); u != nil {
		userID = &u.ID
	}

	a, err := data.CreateAnswer(h.db, questionID, userID, req.ParentID, req.GuestName, message)
	if errors.Is(err, data.ErrParentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "Parent answer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	out := answerOut(a, []gin.H{})
	h.hub.Broadcast("new_answer", out)

	c.JSON(http.StatusCreated, out)
}

// Rate casts an admin's up/down vote. One active vote per admin per answer;
// repeating the same direction is a conflict, the opposite direction flips
// the stored vote.
func (h Answers) Rate(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Question not found"})
		return
	}
	answerID, err := strconv.ParseUint(c.Param("answerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "Answer not found"})
		return
	}

	var req struct {
		Vote string `json:"vote" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	admin := currentUser(c)

	if _, err := data.GetAnswer(h.db, questionID, answerID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "Answer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	tally, err := data.CastVote(h.db, answerID, admin.ID, req.Vote)
	if errors.Is(err, data.ErrDuplicateVote) {
		c.JSON(http.StatusBadRequest, gin.H{"err": fmt.Sprintf("You have already %svoted this answer", req.Vote)})
		return
	}
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "Answer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	h.hub.Broadcast("answer_rated", gin.H{
		"answer_id":   tally.AnswerID,
		"question_id": tally.QuestionID,
		"upvotes":     tally.Upvotes,
		"downvotes":   tally.Downvotes,
		"score":       tally.Score,
	})

	c.JSON(http.StatusOK, gin.H{
		"answer_id": tally.AnswerID,
		"upvotes":   tally.Upvotes,
		"downvotes": tally.Downvotes,
		"score":     tally.Score,
	})
}
