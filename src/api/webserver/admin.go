package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/data"
)

type Admin struct{ db *gorm.DB }

func NewAdmin(db *gorm.DB) Admin { return Admin{db: db} }

func (h Admin) Stats(c *gin.Context) {
	stats, err := data.QuestionStats(h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
