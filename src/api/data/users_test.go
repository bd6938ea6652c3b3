package data

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/querysync/querysync/src/api/types"
)

func TestCreateUserIsAdmin(t *testing.T) {
	db := testDB(t)

	u := seedUser(t, db, "alice", "alice@example.com")
	require.Equal(t, types.RoleAdmin, u.Role)
	require.NotZero(t, u.ID)
}

func TestCreateUserDuplicateEmailIsConflict(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "alice", "alice@example.com")

	_, err := CreateUser(db, "alice2", "alice@example.com", "x")
	require.Error(t, err)
	require.True(t, IsConflict(err))
}

func TestGetUserLookups(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "alice", "alice@example.com")

	byEmail, err := GetUserByEmail(db, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byName, err := GetUserByUsername(db, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byID, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = GetUserByEmail(db, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAllAdminEmails(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "alice", "alice@example.com")
	seedUser(t, db, "bob", "bob@example.com")

	// Demoted accounts drop out of the notification fan-out.
	require.NoError(t, db.Model(&types.User{}).
		Where("username = ?", "bob").
		Update("role", types.RoleUser).Error)

	emails, err := AllAdminEmails(db)
	require.NoError(t, err)
	require.Equal(t, []string{"alice@example.com"}, emails)
}

func TestGenerateCodeIsFourDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}
