package data

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/querysync/querysync/src/api/types"
)

// testDB opens an in-memory database with a single pooled connection so every
// query sees the same :memory: instance.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedQuestion(t *testing.T, db *gorm.DB, message string, escalate bool) *types.Question {
	t.Helper()
	q, err := CreateQuestion(db, nil, nil, message, escalate)
	require.NoError(t, err)
	return q
}

func seedAnswer(t *testing.T, db *gorm.DB, questionID uint64, parentID *uint64, message string) *types.Answer {
	t.Helper()
	a, err := CreateAnswer(db, questionID, nil, parentID, nil, message)
	require.NoError(t, err)
	return a
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *types.User {
	t.Helper()
	u, err := CreateUser(db, username, email, "x")
	require.NoError(t, err)
	return u
}
