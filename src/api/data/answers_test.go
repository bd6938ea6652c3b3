package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAnswerThreadsUnderParent(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	parent := seedAnswer(t, db, q.ID, nil, "parent")

	reply := seedAnswer(t, db, q.ID, &parent.ID, "reply")
	require.NotNil(t, reply.ParentID)
	require.Equal(t, parent.ID, *reply.ParentID)
	require.Equal(t, q.ID, reply.QuestionID)
}

func TestCreateAnswerUnknownParent(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)

	missing := uint64(999)
	_, err := CreateAnswer(db, q.ID, nil, &missing, nil, "orphan")
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestCreateAnswerParentFromOtherQuestion(t *testing.T) {
	db := testDB(t)
	q1 := seedQuestion(t, db, "one", false)
	q2 := seedQuestion(t, db, "two", false)
	other := seedAnswer(t, db, q1.ID, nil, "belongs to q1")

	_, err := CreateAnswer(db, q2.ID, nil, &other.ID, nil, "cross-thread")
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestCreateAnswerGuestNameOnlyForGuests(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, "q", false)
	u := seedUser(t, db, "alice", "alice@example.com")
	guest := "Bob"

	asUser, err := CreateAnswer(db, q.ID, &u.ID, nil, &guest, "from a user")
	require.NoError(t, err)
	require.Nil(t, asUser.GuestName)

	asGuest, err := CreateAnswer(db, q.ID, nil, nil, &guest, "from a guest")
	require.NoError(t, err)
	require.NotNil(t, asGuest.GuestName)
	require.Equal(t, "Bob", *asGuest.GuestName)
}

func TestGetAnswerScopedToQuestion(t *testing.T) {
	db := testDB(t)
	q1 := seedQuestion(t, db, "one", false)
	q2 := seedQuestion(t, db, "two", false)
	a := seedAnswer(t, db, q1.ID, nil, "a")

	got, err := GetAnswer(db, q1.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	_, err = GetAnswer(db, q2.ID, a.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
