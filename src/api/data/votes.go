package data

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/querysync/querysync/src/api/types"
)

// Tally is the post-vote state of an answer's counters.
type Tally struct {
	AnswerID   uint64 `json:"answer_id"`
	QuestionID uint64 `json:"question_id"`
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	Score      int    `json:"score"`
}

// CastVote's read-then-write sequence is a check-then-act race, so casts on
// the same answer serialize through a striped mutex. The unique index on
// (answer_id, user_id) stays as the last line of defense; a raced insert that
// trips it is retried once and lands as a change-of-vote.
var voteStripes [64]sync.Mutex

func voteLock(answerID uint64) *sync.Mutex {
	return &voteStripes[answerID%uint64(len(voteStripes))]
}

var errVoteRaced = errors.New("vote insert raced")

// CastVote records raterID's vote on answerID. A first vote inserts and bumps
// the matching counter; repeating the same kind fails with ErrDuplicateVote
// and mutates nothing; switching kind moves one count from the old column to
// the new and overwrites the stored kind. Counters and ledger commit together.
func CastVote(db *gorm.DB, answerID, raterID uint64, kind string) (*Tally, error) {
	if kind != types.VoteUp && kind != types.VoteDown {
		return nil, fmt.Errorf("invalid vote kind %q", kind)
	}

	mu := voteLock(answerID)
	mu.Lock()
	defer mu.Unlock()

	tally, err := castVoteTx(db, answerID, raterID, kind)
	if errors.Is(err, errVoteRaced) {
		// Another process inserted first; the retry observes its row and
		// resolves as a change-of-vote or a duplicate.
		tally, err = castVoteTx(db, answerID, raterID, kind)
	}
	return tally, err
}

func castVoteTx(db *gorm.DB, answerID, raterID uint64, kind string) (*Tally, error) {
	var tally Tally
	err := db.Transaction(func(tx *gorm.DB) error {
		var ans types.Answer
		if err := tx.First(&ans, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing types.Vote
		err := tx.Where("answer_id = ? AND user_id = ?", answerID, raterID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := types.Vote{AnswerID: answerID, UserID: raterID, Kind: kind}
			if err := tx.Create(&vote).Error; err != nil {
				if isUniqueViolation(err) {
					return errVoteRaced
				}
				return err
			}
			bump(&ans, kind, 1)

		case err != nil:
			return err

		case existing.Kind == kind:
			return fmt.Errorf("%w: already %svoted this answer", ErrDuplicateVote, kind)

		default:
			bump(&ans, existing.Kind, -1)
			bump(&ans, kind, 1)
			if err := tx.Model(&types.Vote{}).Where("id = ?", existing.ID).
				Update("kind", kind).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&types.Answer{}).Where("id = ?", ans.ID).
			Updates(map[string]interface{}{"upvotes": ans.Upvotes, "downvotes": ans.Downvotes}).Error; err != nil {
			return err
		}

		tally = Tally{
			AnswerID:   ans.ID,
			QuestionID: ans.QuestionID,
			Upvotes:    ans.Upvotes,
			Downvotes:  ans.Downvotes,
			Score:      ans.Score(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tally, nil
}

func bump(a *types.Answer, kind string, delta int) {
	if kind == types.VoteUp {
		a.Upvotes += delta
	} else {
		a.Downvotes += delta
	}
}
