package webserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janmitra/civic-complaints/src/api/data"
	"github.com/janmitra/civic-complaints/src/api/types"
	"github.com/janmitra/civic-complaints/src/shared/wards"
)

type Admin struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewAdmin(db *gorm.DB, rdb *redis.Client) Admin {
	return Admin{db: db, rdb: rdb}
}

// UpdateStatus moves a complaint through the status vocabulary. Timeline
// rows and reward points are handled by the data layer.
func (h Admin) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad complaint id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	actor := fmt.Sprintf("admin:%d", citizenID(c))
	complaint, err := data.UpdateComplaintStatus(h.db, id, req.Status, actor)
	switch {
	case errors.Is(err, data.ErrBadStatus):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	case errors.Is(err, data.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
		return
	case errors.Is(err, data.ErrSameStatus):
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	if err := data.PublishComplaintEvent(context.Background(), h.rdb, map[string]interface{}{
		"event":    "status_changed",
		"id":       complaint.ID,
		"ward_id":  complaint.WardID,
		"zone":     wards.Zone(complaint.WardID),
		"category": complaint.Category,
		"status":   complaint.Status,
	}); err != nil {
		log.Printf("publish status change %d: %v", complaint.ID, err)
	}

	c.JSON(http.StatusOK, complaint)
}

// SetMetrics upserts the pollution figures for a ward profile.
func (h Admin) SetMetrics(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || !wards.Valid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "ward id must be between 1 and 250"})
		return
	}
	var req struct {
		AQI          int `json:"aqi" binding:"min=0,max=999"`
		WaterIndex   int `json:"water_index" binding:"min=0,max=100"`
		NoiseLevelDB int `json:"noise_level_db" binding:"min=0,max=150"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	metric := types.WardMetric{
		WardID:       id,
		AQI:          req.AQI,
		WaterIndex:   req.WaterIndex,
		NoiseLevelDB: req.NoiseLevelDB,
		UpdatedAt:    time.Now(),
	}
	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ward_id"}},
		UpdateAll: true,
	}).Create(&metric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, metric)
}
