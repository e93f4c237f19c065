package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.InitDB(config.DatabaseConfig{DataPath: filepath.Join(t.TempDir(), "roster.db")})
	require.NoError(t, err)
	return New(db)
}

func TestGrid_LoadMissingIsEmpty(t *testing.T) {
	s := newTestStore(t)
	g, err := s.LoadGrid(context.Background(), "fac1", models.MonthKey{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.NotNil(t, g)
	assert.Empty(t, g)
}

func TestGrid_SaveAndReload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	month := models.MonthKey{Year: 2024, Month: 2}

	grid := models.Grid{"cw1": {1: "S", 29: "N"}, "sw": {5: "D"}}
	require.NoError(t, s.SaveGrid(ctx, "fac1", month, grid))

	got, err := s.LoadGrid(ctx, "fac1", month)
	require.NoError(t, err)
	assert.Equal(t, grid, got)

	// overwrite replaces the whole grid
	require.NoError(t, s.SaveGrid(ctx, "fac1", month, models.Grid{"cw1": {2: "휴"}}))
	got, err = s.LoadGrid(ctx, "fac1", month)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{"cw1": {2: "휴"}}, got)

	// other facilities and months are separate
	other, err := s.LoadGrid(ctx, "fac2", month)
	require.NoError(t, err)
	assert.Empty(t, other)
	other, err = s.LoadGrid(ctx, "fac1", models.MonthKey{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStaff_UpsertListAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "cw1", Name: "김영희", Position: "요양보호사"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRotating, a.Role)
	assert.Equal(t, models.StatusActive, a.Status)

	b, err := s.UpsertStaff(ctx, "fac1", models.StaffMember{Name: "이철수", Position: "간호사"})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	_, err = s.UpsertStaff(ctx, "fac2", models.StaffMember{ID: "x", Name: "Other"})
	require.NoError(t, err)

	list, err := s.ListStaff(ctx, "fac1", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cw1", list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, models.RoleFixedDay, list[1].Role)

	require.NoError(t, s.UpdateStatus(ctx, "fac1", "cw1", models.StatusInactive))
	active, err := s.ListStaff(ctx, "fac1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	// update keeps the original order
	_, err = s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "cw1", Name: "김영희", Position: "요양보호사", Status: models.StatusActive})
	require.NoError(t, err)
	list, err = s.ListStaff(ctx, "fac1", true)
	require.NoError(t, err)
	assert.Equal(t, "cw1", list[0].ID)
}

func TestStaff_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateStatus(ctx, "fac1", "nobody", models.StatusLeave)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	err = s.UpdateStatus(ctx, "fac1", "nobody", "retired")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "a", Status: "retired"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStaff_UpdateWithoutStatusKeepsStoredStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "cw1", Name: "김영희", Position: "요양보호사"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, "fac1", "cw1", models.StatusInactive))

	renamed, err := s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "cw1", Name: "김영희B", Position: "요양보호사"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, renamed.Status)

	active, err := s.ListStaff(ctx, "fac1", true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListStaff(ctx, "fac1", false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "김영희B", all[0].Name)
	assert.Equal(t, models.StatusInactive, all[0].Status)

	// an explicit status still applies on update
	_, err = s.UpsertStaff(ctx, "fac1", models.StaffMember{ID: "cw1", Name: "김영희B", Position: "요양보호사", Status: models.StatusActive})
	require.NoError(t, err)
	active, err = s.ListStaff(ctx, "fac1", true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestStaff_ListByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, m := range []models.StaffMember{
		{ID: "a", Name: "A", Status: models.StatusActive},
		{ID: "b", Name: "B", Status: models.StatusLeave},
		{ID: "c", Name: "C", Status: models.StatusInactive},
		{ID: "d", Name: "D", Status: models.StatusLeave},
	} {
		_, err := s.UpsertStaff(ctx, "fac1", m)
		require.NoError(t, err)
	}

	leave, err := s.ListStaffByStatus(ctx, "fac1", models.StatusLeave)
	require.NoError(t, err)
	require.Len(t, leave, 2)
	assert.Equal(t, "b", leave[0].ID)
	assert.Equal(t, "d", leave[1].ID)

	inactive, err := s.ListStaffByStatus(ctx, "fac1", models.StatusInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "c", inactive[0].ID)

	_, err = s.ListStaffByStatus(ctx, "fac1", "retired")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGrid_ListMonths(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGrid(ctx, "fac1", models.MonthKey{Year: 2024, Month: 1}, models.Grid{"cw1": {1: "S", 2: "N"}}))
	require.NoError(t, s.SaveGrid(ctx, "fac1", models.MonthKey{Year: 2024, Month: 3}, models.Grid{"cw1": {1: "S"}, "sw": {1: "D"}}))
	require.NoError(t, s.SaveGrid(ctx, "fac1", models.MonthKey{Year: 2023, Month: 12}, models.Grid{}))
	require.NoError(t, s.SaveGrid(ctx, "fac2", models.MonthKey{Year: 2024, Month: 2}, models.Grid{"x": {1: "S"}}))

	got, err := s.ListMonths(ctx, "fac1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03", got[0].Month)
	assert.Equal(t, 2, got[0].Staff)
	assert.Equal(t, 2, got[0].Cells)
	assert.Equal(t, "2024-01", got[1].Month)
	assert.Equal(t, 1, got[1].Staff)
	assert.Equal(t, 2, got[1].Cells)
	assert.False(t, got[1].UpdatedAt.IsZero())
}
