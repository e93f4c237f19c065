package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStaffNotFound = errors.New("staff member not found")
	ErrInvalidStatus = errors.New("invalid staff status")
)

// GridRepository loads and saves one facility month's grid
type GridRepository interface {
	LoadGrid(ctx context.Context, facilityID string, month models.MonthKey) (models.Grid, error)
	SaveGrid(ctx context.Context, facilityID string, month models.MonthKey, grid models.Grid) error
	ListMonths(ctx context.Context, facilityID string, limit int) ([]models.RosterActivity, error)
}

// StaffRepository is the staff feed
type StaffRepository interface {
	ListStaff(ctx context.Context, facilityID string, activeOnly bool) ([]models.StaffMember, error)
	ListStaffByStatus(ctx context.Context, facilityID, status string) ([]models.StaffMember, error)
	UpsertStaff(ctx context.Context, facilityID string, member models.StaffMember) (models.StaffMember, error)
	UpdateStatus(ctx context.Context, facilityID, staffID, status string) error
}

// GormStore implements both repositories on top of gorm
type GormStore struct {
	DB *gorm.DB
}

// New creates a store on an already migrated database
func New(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// LoadGrid returns the saved grid, or an empty grid when the month has never been saved
func (s *GormStore) LoadGrid(ctx context.Context, facilityID string, month models.MonthKey) (models.Grid, error) {
	var row database.RosterMonth
	res := s.DB.WithContext(ctx).
		Where("facility_id = ? AND month_key = ?", facilityID, month.String()).
		Limit(1).Find(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("load grid %s: %w", month, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Grid{}, nil
	}

	grid := models.Grid{}
	if err := json.Unmarshal([]byte(row.GridJSON), &grid); err != nil {
		return nil, fmt.Errorf("decode grid %s: %w", month, err)
	}
	return grid, nil
}

// SaveGrid replaces the stored grid for the month
func (s *GormStore) SaveGrid(ctx context.Context, facilityID string, month models.MonthKey, grid models.Grid) error {
	if grid == nil {
		grid = models.Grid{}
	}
	data, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("encode grid %s: %w", month, err)
	}

	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "facility_id"}, {Name: "month_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"grid_json", "updated_at"}),
	}).Create(&database.RosterMonth{
		FacilityID: facilityID,
		MonthKey:   month.String(),
		GridJSON:   string(data),
		UpdatedAt:  time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("save grid %s: %w", month, err)
	}
	return nil
}

// ListMonths returns the most recently saved months first, with the number of
// staff rows and filled cells in each
func (s *GormStore) ListMonths(ctx context.Context, facilityID string, limit int) ([]models.RosterActivity, error) {
	var rows []database.RosterMonth
	err := s.DB.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("month_key desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}

	out := make([]models.RosterActivity, 0, len(rows))
	for _, r := range rows {
		grid := models.Grid{}
		if err := json.Unmarshal([]byte(r.GridJSON), &grid); err != nil {
			return nil, fmt.Errorf("decode grid %s: %w", r.MonthKey, err)
		}
		activity := models.RosterActivity{Month: r.MonthKey, Staff: len(grid), UpdatedAt: r.UpdatedAt}
		for _, days := range grid {
			activity.Cells += len(days)
		}
		out = append(out, activity)
	}
	return out, nil
}

// ListStaff returns staff in roster order
func (s *GormStore) ListStaff(ctx context.Context, facilityID string, activeOnly bool) ([]models.StaffMember, error) {
	if activeOnly {
		return s.listStaff(ctx, facilityID, models.StatusActive)
	}
	return s.listStaff(ctx, facilityID, "")
}

// ListStaffByStatus returns the members with the given status in roster order
func (s *GormStore) ListStaffByStatus(ctx context.Context, facilityID, status string) ([]models.StaffMember, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.listStaff(ctx, facilityID, status)
}

func (s *GormStore) listStaff(ctx context.Context, facilityID, status string) ([]models.StaffMember, error) {
	q := s.DB.WithContext(ctx).Where("facility_id = ?", facilityID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []database.StaffRecord
	if err := q.Order("sort_order asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	out := make([]models.StaffMember, 0, len(rows))
	for _, r := range rows {
		out = append(out, toMember(r))
	}
	return out, nil
}

// UpsertStaff creates or updates a staff member. New members get a generated
// ID when none is supplied, start active unless a status is given and are
// appended to the end of the roster order. An update without a status keeps
// the stored one.
func (s *GormStore) UpsertStaff(ctx context.Context, facilityID string, member models.StaffMember) (models.StaffMember, error) {
	if member.Status != "" && !validStatus(member.Status) {
		return models.StaffMember{}, fmt.Errorf("%w: %q", ErrInvalidStatus, member.Status)
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing database.StaffRecord
		res := tx.Where("facility_id = ? AND staff_id = ?", facilityID, member.ID).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if member.Status == "" {
				member.Status = models.StatusActive
			}
			var count int64
			if err := tx.Model(&database.StaffRecord{}).Where("facility_id = ?", facilityID).Count(&count).Error; err != nil {
				return err
			}
			return tx.Create(&database.StaffRecord{
				FacilityID: facilityID,
				StaffID:    member.ID,
				Name:       member.Name,
				Position:   member.Position,
				Status:     member.Status,
				SortOrder:  int(count),
			}).Error
		}

		updates := map[string]interface{}{
			"name":     member.Name,
			"position": member.Position,
		}
		if member.Status == "" {
			member.Status = existing.Status
		} else {
			updates["status"] = member.Status
		}
		return tx.Model(&existing).Updates(updates).Error
	})
	if err != nil {
		return models.StaffMember{}, fmt.Errorf("upsert staff %s: %w", member.ID, err)
	}

	member.Role = models.ResolveRole(member.Position)
	return member, nil
}

// UpdateStatus changes a staff member's employment status
func (s *GormStore) UpdateStatus(ctx context.Context, facilityID, staffID, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	res := s.DB.WithContext(ctx).Model(&database.StaffRecord{}).
		Where("facility_id = ? AND staff_id = ?", facilityID, staffID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update status %s: %w", staffID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func toMember(r database.StaffRecord) models.StaffMember {
	return models.StaffMember{
		ID:       r.StaffID,
		Name:     r.Name,
		Position: r.Position,
		Role:     models.ResolveRole(r.Position),
		Status:   r.Status,
	}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusLeave:
		return true
	}
	return false
}
