package database

import (
	"log"
	"os"
	"time"

	"github.com/carefacility/roster-api-go/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIKey represents the api_keys table. Name is the facility the key belongs to.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalStaff   int    `gorm:"default:0" json:"total_staff"`
	TotalCells   int    `gorm:"default:0" json:"total_cells"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// StaffRecord represents the staff_members table
type StaffRecord struct {
	ID         uint   `gorm:"primaryKey"`
	FacilityID string `gorm:"uniqueIndex:idx_facility_staff;not null"`
	StaffID    string `gorm:"uniqueIndex:idx_facility_staff;not null"`
	Name       string `gorm:"not null"`
	Position   string
	Status     string `gorm:"not null;default:active;index"`
	SortOrder  int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (StaffRecord) TableName() string {
	return "staff_members"
}

// RosterMonth represents the roster_months table. GridJSON holds the
// staff -> day -> code mapping for one facility month.
type RosterMonth struct {
	ID         uint   `gorm:"primaryKey"`
	FacilityID string `gorm:"uniqueIndex:idx_facility_month;not null"`
	MonthKey   string `gorm:"uniqueIndex:idx_facility_month;not null"`
	GridJSON   string `gorm:"column:grid_json;type:text;not null"`
	UpdatedAt  time.Time
}

// InitDB opens postgres when a URL is configured and sqlite otherwise, then migrates the schema
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	gcfg := &gorm.Config{Logger: newLogger(log.New(os.Stdout, "\r\n", log.LstdFlags))}
	if cfg.URL != "" {
		gcfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), gcfg)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DataPath), gcfg)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newLogger logs slow queries and real failures. Lookups that find no row
// are an expected outcome here and stay quiet.
func newLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates every table the service uses
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &StaffRecord{}, &RosterMonth{})
}
