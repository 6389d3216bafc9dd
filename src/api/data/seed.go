package data

import (
	"log"

	"github.com/janmitra/civic-complaints/src/api/types"
	"github.com/janmitra/civic-complaints/src/shared/wards"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedWards upserts the full 250-ward gazetteer. Names and zones are
// reference data and may be corrected by a new build, so conflicts update.
func SeedWards(db *gorm.DB) error {
	rows := make([]types.Ward, 0, wards.MaxID)
	for _, w := range wards.All() {
		rows = append(rows, types.Ward{ID: w.ID, Name: w.Name, Zone: w.Zone})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "zone"}),
	}).CreateInBatches(rows, 100).Error
}

// SeedWardMetrics creates a metrics row per ward when none exists yet.
// Figures are deterministic placeholders until real sensor feeds land.
func SeedWardMetrics(db *gorm.DB) error {
	var count int64
	if err := db.Model(&types.WardMetric{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rows := make([]types.WardMetric, 0, wards.MaxID)
	for id := wards.MinID; id <= wards.MaxID; id++ {
		rows = append(rows, types.WardMetric{
			WardID:       id,
			AQI:          120 + (id*7)%180,
			WaterIndex:   40 + (id*11)%55,
			NoiseLevelDB: 55 + (id*3)%30,
		})
	}
	return db.CreateInBatches(rows, 100).Error
}

// EnsureAdmin creates or refreshes the bootstrap admin account from env
// configuration. A missing phone/password pair is fine; status updates then
// require an account promoted by hand.
func EnsureAdmin(db *gorm.DB, phone, password string) error {
	if phone == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var admin types.Citizen
	err = db.Where("phone = ?", phone).First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		admin = types.Citizen{Phone: phone, Name: "Administrator", WardID: 1}
	} else if err != nil {
		return err
	}
	admin.Admin = true
	admin.PasswordHash = string(hash)
	if err := db.Save(&admin).Error; err != nil {
		return err
	}
	log.Printf("admin account ready for %s", phone)
	return nil
}
