package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/janmitra/civic-complaints/src/api/types"
	"gorm.io/gorm"
)

// ResolvedPoints is credited to the owner the first time a complaint
// reaches resolved.
const ResolvedPoints = 50

// ActorCitizen tags timeline rows written on behalf of the submitting
// citizen; administrative rows carry the admin's phone number.
const ActorCitizen = "citizen"

var (
	ErrBadStatus  = errors.New("unknown complaint status")
	ErrNotFound   = errors.New("complaint not found")
	ErrSameStatus = errors.New("complaint already in that status")
)

// CreateComplaint inserts the complaint together with its initial timeline
// row in one transaction. Handlers never write timeline rows themselves.
func CreateComplaint(db *gorm.DB, c *types.Complaint) error {
	if c.Status == "" {
		c.Status = types.StatusSubmitted
	}
	if !types.ValidStatuses[c.Status] {
		return ErrBadStatus
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&types.TimelineEntry{
			ComplaintID: c.ID,
			Status:      c.Status,
			Actor:       ActorCitizen,
		}).Error
	})
}

// UpdateComplaintStatus moves a complaint to a new status, appends the
// timeline row and credits reward points on the first transition to
// resolved. Same-status updates are rejected so the timeline stays one row
// per distinct transition.
func UpdateComplaintStatus(db *gorm.DB, id uint64, status, actor string) (*types.Complaint, error) {
	if !types.ValidStatuses[status] {
		return nil, ErrBadStatus
	}

	var c types.Complaint
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if c.Status == status {
			return ErrSameStatus
		}

		updates := map[string]interface{}{"status": status, "updated_at": time.Now()}
		if status == types.StatusResolved && c.PointsAwarded == 0 {
			updates["points_awarded"] = ResolvedPoints
			if err := tx.Model(&types.Citizen{}).
				Where("id = ?", c.CitizenID).
				Update("points", gorm.Expr("points + ?", ResolvedPoints)).Error; err != nil {
				return err
			}
			c.PointsAwarded = ResolvedPoints
		}
		if err := tx.Model(&c).Updates(updates).Error; err != nil {
			return err
		}
		c.Status = status

		return tx.Create(&types.TimelineEntry{
			ComplaintID: c.ID,
			Status:      status,
			Actor:       actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetComplaint loads one complaint with its timeline in transition order.
func GetComplaint(db *gorm.DB, id uint64) (*types.Complaint, error) {
	var c types.Complaint
	err := db.Preload("Timeline", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at asc")
	}).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplaints returns the public ledger, newest first.
func ListComplaints(db *gorm.DB, limit, offset int) ([]types.Complaint, error) {
	var out []types.Complaint
	err := db.Order("created_at desc").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// ListByCitizen returns one citizen's complaints, newest first, with
// timelines attached.
func ListByCitizen(db *gorm.DB, citizenID uint64) ([]types.Complaint, error) {
	var out []types.Complaint
	err := db.Preload("Timeline", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at asc")
	}).Where("citizen_id = ?", citizenID).
		Order("created_at desc").Find(&out).Error
	return out, err
}

// Profile aggregates a ward's complaints and pollution metrics.
type Profile struct {
	Ward       types.Ward        `json:"ward"`
	Total      int64             `json:"total_complaints"`
	ByCategory map[string]int64  `json:"by_category"`
	ByStatus   map[string]int64  `json:"by_status"`
	Metrics    *types.WardMetric `json:"metrics,omitempty"`
}

// WardProfile computes the aggregation for one ward.
func WardProfile(db *gorm.DB, wardID int) (*Profile, error) {
	var ward types.Ward
	if err := db.First(&ward, wardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ward %d not found", wardID)
		}
		return nil, err
	}

	p := &Profile{
		Ward:       ward,
		ByCategory: map[string]int64{},
		ByStatus:   map[string]int64{},
	}
	if err := db.Model(&types.Complaint{}).
		Where("ward_id = ?", wardID).Count(&p.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var rows []bucket
	if err := db.Model(&types.Complaint{}).
		Select("category as `key`, count(*) as count").
		Where("ward_id = ?", wardID).Group("category").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		p.ByCategory[r.Key] = r.Count
	}

	rows = nil
	if err := db.Model(&types.Complaint{}).
		Select("status as `key`, count(*) as count").
		Where("ward_id = ?", wardID).Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		p.ByStatus[r.Key] = r.Count
	}

	var metric types.WardMetric
	if err := db.First(&metric, wardID).Error; err == nil {
		p.Metrics = &metric
	}
	return p, nil
}
