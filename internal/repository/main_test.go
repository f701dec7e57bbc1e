package repository

import (
	"testing"

	"agora/internal/database"
	"agora/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for SQL-shape tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

// setupSQLiteDB returns an isolated, migrated in-memory database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(dsn)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string { return &s }

type fixture struct {
	alice *models.User
	bob   *models.User
	topic *models.Topic
	post  *models.Post
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	alice := &models.User{Name: strPtr("alice"), Image: strPtr("https://img/alice.png")}
	bob := &models.User{Name: strPtr("bob")}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	topic := &models.Topic{Slug: "general-chat", Description: "Anything goes here"}
	require.NoError(t, db.Create(topic).Error)

	post := &models.Post{Title: "Hello", Content: "First post in the forum", UserID: alice.ID, TopicID: topic.ID}
	require.NoError(t, db.Create(post).Error)

	return fixture{alice: alice, bob: bob, topic: topic, post: post}
}
