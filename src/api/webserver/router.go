package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/janmitra/civic-complaints/src/ai/classify"
	"github.com/janmitra/civic-complaints/src/api/config"
	"github.com/janmitra/civic-complaints/src/api/storage"
)

// New assembles the gin engine with all routes attached.
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, photos *storage.PhotoStore, clf *classify.Classifier) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, db, rdb, photos, clf)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, photos *storage.PhotoStore, clf *classify.Classifier) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.PublicBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Uploaded photos are public by design: the ledger is transparent.
	r.Static("/uploads", cfg.UploadDir)

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(db, rdb, secret)
	cmplH := NewComplaints(db, rdb, clf)
	wardH := NewWards(db, rdb)
	upH := NewUploads(photos)

	// One analysis per draft is the expected pattern; the limiter mostly
	// guards the model API bill against scripted clients.
	limiter := NewRateLimiter(10, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)
		v1.POST("/auth/admin", authH.AdminLogin)

		v1.GET("/complaints", cmplH.List)
		v1.GET("/complaints/:id", cmplH.Get)
		v1.GET("/wards/:id/profile", wardH.Profile)

		secured := v1.Group("")
		secured.Use(JWTMiddleware(secret))
		secured.POST("/complaints/analyze", RateLimitMiddleware(limiter), cmplH.Analyze)
		secured.POST("/complaints", RateLimitMiddleware(limiter), cmplH.Create)
		secured.GET("/me/complaints", cmplH.Mine)
		secured.POST("/uploads", upH.Create)
	}

	admin := v1.Group("/admin")
	admin.Use(JWTMiddleware(secret), AdminOnly())
	{
		adminH := NewAdmin(db, rdb)
		admin.PUT("/complaints/:id/status", adminH.UpdateStatus)
		admin.PUT("/wards/:id/metrics", adminH.SetMetrics)
	}
}
