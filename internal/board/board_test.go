package board

import (
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kalpasnet/kotoba/internal/models"
)

// newTestDB opens an isolated in-memory sqlite database. A single open
// connection, or every pooled connection would get its own empty memory
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.Post{},
		&models.RoleAssignment{},
		&models.Setting{},
		&models.NGWord{},
	))
	return gdb
}

func newTestRegistry(t *testing.T, gdb *gorm.DB, adminTags ...string) *RoleRegistry {
	t.Helper()
	return NewRoleRegistry(gdb, adminTags, zap.NewNop())
}

// seedPosts appends n posts a second apart so listing order is
// unambiguous. Contents are "post 1" .. "post n" in creation order.
func seedPosts(t *testing.T, store *PostStore, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		require.NoError(t, store.Append(&models.Post{
			Name:      "anon",
			Content:   "post " + strconv.Itoa(i),
			AuthorTag: "@aaaaaaa",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
}
