package data

import (
	"errors"

	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/types"
)

// CreateAnswer stores a new answer under questionID. A parentID, when given,
// must reference an answer of the same question; the parent must already
// exist, so reply chains cannot form cycles.
func CreateAnswer(db *gorm.DB, questionID uint64, userID, parentID *uint64, guestName *string, message string) (*types.Answer, error) {
	if parentID != nil {
		var parent types.Answer
		err := db.Where("id = ? AND question_id = ?", *parentID, questionID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	a := types.Answer{
		QuestionID: questionID,
		UserID:     userID,
		ParentID:   parentID,
		Message:    message,
	}
	if userID == nil {
		a.GuestName = guestName
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func GetAnswer(db *gorm.DB, questionID, answerID uint64) (*types.Answer, error) {
	var a types.Answer
	err := db.Where("id = ? AND question_id = ?", answerID, questionID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
