package data

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/querysync/querysync/src/api/types"
)

func TestCastVoteFirstVote(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	tally, err := CastVote(db, a.ID, rater.ID, types.VoteUp)
	require.NoError(t, err)
	require.Equal(t, a.ID, tally.AnswerID)
	require.Equal(t, q.ID, tally.QuestionID)
	require.Equal(t, 1, tally.Upvotes)
	require.Equal(t, 0, tally.Downvotes)
	require.Equal(t, 1, tally.Score)

	stored, err := GetAnswer(db, q.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.Upvotes)
}

func TestCastVoteSameKindIsConflict(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	_, err := CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.NoError(t, err)

	_, err = CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.ErrorIs(t, err, ErrDuplicateVote)

	// Conflicting cast mutates nothing.
	stored, err := GetAnswer(db, q.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Upvotes)
	require.Equal(t, 1, stored.Downvotes)
}

func TestCastVoteSwitchKindMovesOneCount(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	_, err := CastVote(db, a.ID, rater.ID, types.VoteUp)
	require.NoError(t, err)

	tally, err := CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.NoError(t, err)
	require.Equal(t, 0, tally.Upvotes)
	require.Equal(t, 1, tally.Downvotes)
	require.Equal(t, -1, tally.Score)

	// Still one ledger row per rater, now flipped.
	var votes []types.Vote
	require.NoError(t, db.Where("answer_id = ?", a.ID).Find(&votes).Error)
	require.Len(t, votes, 1)
	require.Equal(t, types.VoteDown, votes[0].Kind)

	// Repeating the new direction is now the conflict.
	_, err = CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.ErrorIs(t, err, ErrDuplicateVote)
}

func TestCastVoteDistinctRatersAccumulate(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	r1 := seedUser(t, db, "r1", "r1@example.com")
	r2 := seedUser(t, db, "r2", "r2@example.com")
	r3 := seedUser(t, db, "r3", "r3@example.com")

	_, err := CastVote(db, a.ID, r1.ID, types.VoteUp)
	require.NoError(t, err)
	_, err = CastVote(db, a.ID, r2.ID, types.VoteUp)
	require.NoError(t, err)
	tally, err := CastVote(db, a.ID, r3.ID, types.VoteDown)
	require.NoError(t, err)

	require.Equal(t, 2, tally.Upvotes)
	require.Equal(t, 1, tally.Downvotes)
	require.Equal(t, 1, tally.Score)
}

func TestCastVoteUnknownAnswer(t *testing.T) {
	db := testDB(t)
	rater := seedUser(t, db, "rater", "rater@example.com")

	_, err := CastVote(db, 999, rater.ID, types.VoteUp)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCastVoteRejectsUnknownKind(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	_, err := CastVote(db, a.ID, rater.ID, "sideways")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateVote)
}

// Counters always equal the ledger: after up, down, down the rater holds one
// downvote and the third cast fails.
func TestCastVoteUpDownDownSequence(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	_, err := CastVote(db, a.ID, rater.ID, types.VoteUp)
	require.NoError(t, err)
	_, err = CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.NoError(t, err)
	_, err = CastVote(db, a.ID, rater.ID, types.VoteDown)
	require.ErrorIs(t, err, ErrDuplicateVote)

	stored, err := GetAnswer(db, q.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Upvotes)
	require.Equal(t, 1, stored.Downvotes)

	var count int64
	require.NoError(t, db.Model(&types.Vote{}).Where("answer_id = ?", a.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCastVoteConcurrentSameRater(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	a := seedAnswer(t, db, q.ID, nil, "a")
	rater := seedUser(t, db, "rater", "rater@example.com")

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CastVote(db, a.ID, rater.ID, types.VoteUp)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrDuplicateVote)
			dup++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, dup)

	stored, err := GetAnswer(db, q.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.Upvotes)
	require.Equal(t, 0, stored.Downvotes)
}
