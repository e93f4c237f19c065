package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestLogger_QuietOnMissingRow(t *testing.T) {
	w := &recordingWriter{}
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "roster.db")), &gorm.Config{Logger: newLogger(w)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var row RosterMonth
	err = db.Where("facility_id = ?", "nobody").First(&row).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, w.lines)

	// real failures are still logged
	err = db.Table("no_such_table").First(&row).Error
	assert.Error(t, err)
	assert.NotEmpty(t, w.lines)
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(config.DatabaseConfig{DataPath: filepath.Join(t.TempDir(), "roster.db")})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&StaffRecord{}))
	assert.True(t, db.Migrator().HasTable("roster_months"))
}
