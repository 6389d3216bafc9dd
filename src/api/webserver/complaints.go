package webserver

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/janmitra/civic-complaints/src/ai/classify"
	"github.com/janmitra/civic-complaints/src/api/data"
	"github.com/janmitra/civic-complaints/src/api/types"
	"github.com/janmitra/civic-complaints/src/shared/wards"
)

// photoOnlyPlaceholder stands in for the description when the citizen
// attached a photo but wrote nothing.
const photoOnlyPlaceholder = "see attached image"

type Complaints struct {
	db       *gorm.DB
	rdb      *redis.Client
	clf      *classify.Classifier
	sanitize *bluemonday.Policy
}

func NewComplaints(db *gorm.DB, rdb *redis.Client, clf *classify.Classifier) Complaints {
	return Complaints{db: db, rdb: rdb, clf: clf, sanitize: bluemonday.StrictPolicy()}
}

// Analyze runs the draft through the classification pipeline and returns
// the proposed category, suggestion and ward. Nothing is persisted; the
// citizen confirms (or discards) the proposal in a separate call.
func (h Complaints) Analyze(c *gin.Context) {
	var req struct {
		Description  string `json:"description"`
		LocationText string `json:"location_text"`
		PhotoB64     string `json:"photo_b64"`
		PhotoMIME    string `json:"photo_mime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if strings.TrimSpace(req.Description) == "" && req.PhotoB64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "describe the issue or attach a photo"})
		return
	}

	creq := classify.Request{
		Description:  strings.TrimSpace(req.Description),
		LocationText: strings.TrimSpace(req.LocationText),
	}
	if creq.Description == "" {
		creq.Description = photoOnlyPlaceholder
	}
	if req.PhotoB64 != "" {
		img, err := base64.StdEncoding.DecodeString(req.PhotoB64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "photo_b64 is not valid base64"})
			return
		}
		mime := req.PhotoMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		creq.Image = &classify.Image{Data: img, MIME: mime}
	}

	var citizen types.Citizen
	if err := h.db.First(&citizen, citizenID(c)).Error; err == nil {
		creq.FallbackWardID = citizen.WardID
	}

	res, err := h.clf.Classify(c.Request.Context(), creq)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Create persists a confirmed complaint and publishes the event for the
// notifier. The timeline's initial row is written by the data layer.
func (h Complaints) Create(c *gin.Context) {
	var req struct {
		WardID       int    `json:"ward_id" binding:"required"`
		Description  string `json:"description" binding:"required"`
		Category     string `json:"category" binding:"required"`
		AISuggestion string `json:"ai_suggestion"`
		LocationText string `json:"location_text"`
		PhotoURL     string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !wards.Valid(req.WardID) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "ward_id out of range"})
		return
	}
	if !classify.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "unknown category"})
		return
	}
	desc := strings.TrimSpace(h.sanitize.Sanitize(req.Description))
	if desc == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "description is empty after sanitizing"})
		return
	}

	owner := citizenID(c)
	fp := data.ComplaintFingerprint(owner, req.WardID, desc)
	if ok, err := data.ClaimFingerprint(c, h.rdb, fp); err == nil && !ok {
		c.JSON(http.StatusConflict, gin.H{"err": "an identical complaint was submitted recently"})
		return
	}

	complaint := types.Complaint{
		CitizenID:    owner,
		WardID:       req.WardID,
		Description:  desc,
		Category:     req.Category,
		AISuggestion: strings.TrimSpace(req.AISuggestion),
		LocationText: strings.TrimSpace(h.sanitize.Sanitize(req.LocationText)),
		Status:       types.StatusSubmitted,
	}
	if u := strings.TrimSpace(req.PhotoURL); u != "" {
		complaint.PhotoURL = &u
	}
	if err := data.CreateComplaint(h.db, &complaint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	if err := data.PublishComplaintEvent(context.Background(), h.rdb, map[string]interface{}{
		"event":    "created",
		"id":       complaint.ID,
		"ward_id":  complaint.WardID,
		"zone":     wards.Zone(complaint.WardID),
		"category": complaint.Category,
		"status":   complaint.Status,
	}); err != nil {
		log.Printf("publish complaint %d: %v", complaint.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"id": complaint.ID})
}

// Mine lists the caller's complaints with timelines.
func (h Complaints) Mine(c *gin.Context) {
	list, err := data.ListByCitizen(h.db, citizenID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": list})
}

// List is the public transparency ledger, newest first.
func (h Complaints) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	list, err := data.ListComplaints(h.db, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": list})
}

// Get returns one complaint with its timeline.
func (h Complaints) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad complaint id"})
		return
	}
	complaint, err := data.GetComplaint(h.db, id)
	if errors.Is(err, data.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "complaint not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, complaint)
}
