package data

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/types"
)

// escalatedFirst orders the board: escalated questions on top, then newest first.
const escalatedFirst = "CASE WHEN status = 'ESCALATED' THEN 0 ELSE 1 END, created_at DESC, id DESC"

func answersOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func CreateQuestion(db *gorm.DB, userID *uint64, guestName *string, message string, escalate bool) (*types.Question, error) {
	q := types.Question{
		UserID:  userID,
		Message: message,
		Status:  types.StatusPending,
	}
	if userID == nil {
		q.GuestName = guestName
	}
	if escalate {
		now := time.Now().UTC()
		q.Status = types.StatusEscalated
		q.EscalatedAt = &now
	}
	if err := db.Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func ListQuestions(db *gorm.DB, limit, offset int, status string) ([]types.Question, error) {
	if limit <= 0 {
		limit = 50
	}
	query := db.Preload("Answers", answersOldestFirst).Order(escalatedFirst)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var questions []types.Question
	if err := query.Limit(limit).Offset(offset).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func GetQuestion(db *gorm.DB, id uint64) (*types.Question, error) {
	var q types.Question
	err := db.Preload("Answers", answersOldestFirst).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// SetStatus moves a question to any status. Entering ESCALATED stamps
// escalated_at (re-entry overwrites), entering ANSWERED stamps answered_at,
// PENDING stamps neither. The transition commits before returning; push and
// notification side effects belong to the caller.
func SetStatus(db *gorm.DB, id uint64, status string) (*types.Question, error) {
	var q types.Question
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Answers", answersOldestFirst).First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		now := time.Now().UTC()
		updates := map[string]interface{}{"status": status, "updated_at": now}
		switch status {
		case types.StatusEscalated:
			updates["escalated_at"] = now
			q.EscalatedAt = &now
		case types.StatusAnswered:
			updates["answered_at"] = now
			q.AnsweredAt = &now
		}
		q.Status = status
		q.UpdatedAt = now
		return tx.Model(&types.Question{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Stats feeds the admin dashboard.
type Stats struct {
	Total                  int64   `json:"total"`
	Pending                int64   `json:"pending"`
	Escalated              int64   `json:"escalated"`
	Answered               int64   `json:"answered"`
	AvgTimeToAnswerSeconds float64 `json:"avg_time_to_answer_seconds"`
	AvgTimeToAnswerMinutes float64 `json:"avg_time_to_answer_minutes"`
}

func QuestionStats(db *gorm.DB) (*Stats, error) {
	var stats Stats

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := db.Model(&types.Question{}).
		Select("status, count(*) as count").
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case types.StatusPending:
			stats.Pending = r.Count
		case types.StatusEscalated:
			stats.Escalated = r.Count
		case types.StatusAnswered:
			stats.Answered = r.Count
		}
	}

	// Average time-to-answer computed in Go so the query stays portable
	// across MySQL and the SQLite test driver.
	type span struct {
		CreatedAt  time.Time
		AnsweredAt *time.Time
	}
	var spans []span
	if err := db.Model(&types.Question{}).
		Select("created_at, answered_at").
		Where("answered_at IS NOT NULL").Scan(&spans).Error; err != nil {
		return nil, err
	}
	if len(spans) > 0 {
		var total float64
		for _, s := range spans {
			total += s.AnsweredAt.Sub(s.CreatedAt).Seconds()
		}
		avg := total / float64(len(spans))
		stats.AvgTimeToAnswerSeconds = roundTo(avg, 2)
		stats.AvgTimeToAnswerMinutes = roundTo(avg/60, 2)
	}
	return &stats, nil
}

func roundTo(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return float64(int64(v*shift+0.5)) / shift
}
