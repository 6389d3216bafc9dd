package webserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/janmitra/civic-complaints/src/api/data"
	"github.com/janmitra/civic-complaints/src/shared/wards"
)

type Wards struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewWards(db *gorm.DB, rdb *redis.Client) Wards {
	return Wards{db: db, rdb: rdb}
}

// Profile aggregates complaints and pollution metrics for one ward. The
// result is cached briefly since it backs a public page.
func (h Wards) Profile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || !wards.Valid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "ward id must be between 1 and 250"})
		return
	}

	if body, err := data.CachedWardProfile(c, h.rdb, id); err == nil {
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	profile, err := data.WardProfile(h.db, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	body, err := json.Marshal(profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	if err := data.CacheWardProfile(c, h.rdb, id, body); err != nil {
		log.Printf("cache ward profile %d: %v", id, err)
	}
	c.Data(http.StatusOK, "application/json", body)
}
