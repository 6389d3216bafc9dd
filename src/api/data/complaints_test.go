package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/janmitra/civic-complaints/src/api/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.Citizen{}, &types.Ward{}, &types.WardMetric{},
		&types.Complaint{}, &types.TimelineEntry{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func seedCitizen(t *testing.T, db *gorm.DB) *types.Citizen {
	t.Helper()
	cz := &types.Citizen{Phone: "9876543210", Name: "Asha", WardID: 45}
	require.NoError(t, db.Create(cz).Error)
	return cz
}

func newComplaint(citizenID uint64) *types.Complaint {
	return &types.Complaint{
		CitizenID:    citizenID,
		WardID:       45,
		Description:  "Open drain overflowing near the market",
		Category:     "water",
		AISuggestion: "Unblock the storm drain before the next rain.",
	}
}

func TestCreateComplaintWritesInitialTimeline(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)

	c := newComplaint(cz.ID)
	require.NoError(t, CreateComplaint(db, c))
	require.NotZero(t, c.ID)
	assert.Equal(t, types.StatusSubmitted, c.Status)

	got, err := GetComplaint(db, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Timeline, 1)
	assert.Equal(t, types.StatusSubmitted, got.Timeline[0].Status)
	assert.Equal(t, ActorCitizen, got.Timeline[0].Actor)
}

func TestCreateComplaintRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)

	c := newComplaint(cz.ID)
	c.Status = "escalated"
	assert.ErrorIs(t, CreateComplaint(db, c), ErrBadStatus)

	var count int64
	db.Model(&types.Complaint{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateComplaintStatusAppendsTimeline(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)
	c := newComplaint(cz.ID)
	require.NoError(t, CreateComplaint(db, c))

	updated, err := UpdateComplaintStatus(db, c.ID, types.StatusAcknowledged, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAcknowledged, updated.Status)

	got, err := GetComplaint(db, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, types.StatusSubmitted, got.Timeline[0].Status)
	assert.Equal(t, types.StatusAcknowledged, got.Timeline[1].Status)
	assert.Equal(t, "admin:1", got.Timeline[1].Actor)
}

func TestUpdateComplaintStatusSameStatusRejected(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)
	c := newComplaint(cz.ID)
	require.NoError(t, CreateComplaint(db, c))

	_, err := UpdateComplaintStatus(db, c.ID, types.StatusSubmitted, "admin:1")
	assert.ErrorIs(t, err, ErrSameStatus)

	got, err := GetComplaint(db, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Timeline, 1, "rejected transition must not add a row")
}

func TestUpdateComplaintStatusValidation(t *testing.T) {
	db := testDB(t)

	_, err := UpdateComplaintStatus(db, 1, "closed", "admin:1")
	assert.ErrorIs(t, err, ErrBadStatus)

	_, err = UpdateComplaintStatus(db, 999, types.StatusResolved, "admin:1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvedPointsAwardedOnce(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)
	c := newComplaint(cz.ID)
	require.NoError(t, CreateComplaint(db, c))

	updated, err := UpdateComplaintStatus(db, c.ID, types.StatusResolved, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, ResolvedPoints, updated.PointsAwarded)

	var owner types.Citizen
	require.NoError(t, db.First(&owner, cz.ID).Error)
	assert.Equal(t, ResolvedPoints, owner.Points)

	// Bounce out of resolved and back: no second reward.
	_, err = UpdateComplaintStatus(db, c.ID, types.StatusInProgress, "admin:1")
	require.NoError(t, err)
	_, err = UpdateComplaintStatus(db, c.ID, types.StatusResolved, "admin:1")
	require.NoError(t, err)

	require.NoError(t, db.First(&owner, cz.ID).Error)
	assert.Equal(t, ResolvedPoints, owner.Points, "points must only be credited once")

	got, err := GetComplaint(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, ResolvedPoints, got.PointsAwarded)
	assert.Len(t, got.Timeline, 4)
}

func TestListByCitizen(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)
	other := &types.Citizen{Phone: "9000000000", WardID: 12}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, CreateComplaint(db, newComplaint(cz.ID)))
	require.NoError(t, CreateComplaint(db, newComplaint(cz.ID)))
	require.NoError(t, CreateComplaint(db, newComplaint(other.ID)))

	mine, err := ListByCitizen(db, cz.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, c := range mine {
		assert.Equal(t, cz.ID, c.CitizenID)
		assert.NotEmpty(t, c.Timeline)
	}
}

func TestWardProfileAggregates(t *testing.T) {
	db := testDB(t)
	cz := seedCitizen(t, db)
	require.NoError(t, SeedWards(db))
	require.NoError(t, db.Create(&types.WardMetric{WardID: 45, AQI: 180, WaterIndex: 55, NoiseLevelDB: 70}).Error)

	a := newComplaint(cz.ID)
	b := newComplaint(cz.ID)
	b.Category = "air"
	require.NoError(t, CreateComplaint(db, a))
	require.NoError(t, CreateComplaint(db, b))
	_, err := UpdateComplaintStatus(db, a.ID, types.StatusResolved, "admin:1")
	require.NoError(t, err)

	p, err := WardProfile(db, 45)
	require.NoError(t, err)
	assert.Equal(t, "Rohini", p.Ward.Name)
	assert.Equal(t, int64(2), p.Total)
	assert.Equal(t, int64(1), p.ByCategory["water"])
	assert.Equal(t, int64(1), p.ByCategory["air"])
	assert.Equal(t, int64(1), p.ByStatus[types.StatusResolved])
	assert.Equal(t, int64(1), p.ByStatus[types.StatusSubmitted])
	require.NotNil(t, p.Metrics)
	assert.Equal(t, 180, p.Metrics.AQI)
}
