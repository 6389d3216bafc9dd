package webserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/janmitra/civic-complaints/src/api/data"
	"github.com/janmitra/civic-complaints/src/api/types"
	"github.com/janmitra/civic-complaints/src/shared/wards"
)

type Auth struct {
	db        *gorm.DB
	rdb       *redis.Client
	jwtSecret []byte
}

func NewAuth(db *gorm.DB, rdb *redis.Client, secret []byte) Auth {
	return Auth{db: db, rdb: rdb, jwtSecret: secret}
}

// Challenge issues a one-time code for the phone number. SMS delivery is
// out of scope; the code is logged for the operator in dev deployments.
func (a Auth) Challenge(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required,min=10,max=15"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	otp := newOTP()
	if err := data.SetOTP(c, a.rdb, req.Phone, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	log.Printf("otp for %s: %s", req.Phone, otp)
	c.JSON(http.StatusOK, gin.H{"request_id": uuid.NewString()})
}

// Verify exchanges a valid code for a session token, creating the citizen
// record on first login.
func (a Auth) Verify(c *gin.Context) {
	var req struct {
		Phone  string `json:"phone" binding:"required"`
		OTP    string `json:"otp" binding:"required"`
		Name   string `json:"name"`
		WardID int    `json:"ward_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	otp, err := data.GetAndDelOTP(c, a.rdb, req.Phone)
	if err != nil || otp != req.OTP {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid or expired code"})
		return
	}

	ward := req.WardID
	if !wards.Valid(ward) {
		ward = wards.MinID
	}
	var citizen types.Citizen
	if err := a.db.Where("phone = ?", req.Phone).
		FirstOrCreate(&citizen, types.Citizen{Phone: req.Phone, Name: req.Name, WardID: ward}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	token, err := issueJWT(citizen.ID, citizen.Admin, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "citizen": citizen})
}

// AdminLogin authenticates administrative accounts with a password.
func (a Auth) AdminLogin(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var admin types.Citizen
	err := a.db.Where("phone = ? AND admin = ?", req.Phone, true).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		(err == nil && bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil) {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	token, err := issueJWT(admin.ID, true, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func newOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the host is broken; uuid is still random.
		return uuid.NewString()[:6]
	}
	return fmt.Sprintf("%06d", n.Int64())
}
