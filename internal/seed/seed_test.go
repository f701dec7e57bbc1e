package seed

import (
	"testing"

	"agora/internal/database"
	"agora/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(dsn)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  multi   space ":   "multi-space",
		"Cloud-native 2.0!!": "cloud-native",
		"123":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestTopics_Idempotent(t *testing.T) {
	db := setupSQLiteDB(t)

	require.NoError(t, Topics(db))
	require.NoError(t, Topics(db))

	var count int64
	require.NoError(t, db.Model(&models.Topic{}).Count(&count).Error)
	assert.Equal(t, int64(len(builtInTopics)), count)
}

func TestSeeder_Run(t *testing.T) {
	db := setupSQLiteDB(t)
	s := NewSeeder(db, 42)

	res, err := s.Run(Options{Users: 4, Topics: 2, PostsPerTopic: 3, CommentsPerPost: 5, ReplyRatio: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 2, res.Topics)
	assert.Equal(t, 6, res.Posts)
	assert.Equal(t, 30, res.Comments)

	var topics []models.Topic
	require.NoError(t, db.Find(&topics).Error)
	for _, topic := range topics {
		assert.Regexp(t, `^[a-z-]+$`, topic.Slug)
	}

	// Replies stay within their post.
	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	byID := make(map[uint]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	for _, c := range comments {
		if c.ParentID != nil {
			assert.Equal(t, c.PostID, byID[*c.ParentID].PostID)
		}
	}

	res, err = s.Run(Options{Clean: true})
	require.NoError(t, err)
	assert.Zero(t, res.Users)
	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
