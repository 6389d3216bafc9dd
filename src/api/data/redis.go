package data

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const (
	otpPrefix     = "otp:"
	dupePrefix    = "dupe:"
	profilePrefix = "wardprofile:"

	// StreamEvents carries complaint lifecycle events for the notifier.
	StreamEvents = "janmitra.complaints"

	otpTTL     = 5 * time.Minute
	dupeTTL    = time.Hour
	profileTTL = time.Minute
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

func SetOTP(ctx context.Context, rdb *redis.Client, phone, code string) error {
	return rdb.Set(ctx, otpPrefix+phone, code, otpTTL).Err()
}

func GetAndDelOTP(ctx context.Context, rdb *redis.Client, phone string) (string, error) {
	return rdb.GetDel(ctx, otpPrefix+phone).Result()
}

// ComplaintFingerprint hashes the identifying parts of a draft so repeat
// submissions can be caught cheaply in redis.
func ComplaintFingerprint(citizenID uint64, wardID int, description string) string {
	h := xxhash.NewS64(0)
	_, _ = h.WriteString(fmt.Sprintf("%d|%d|", citizenID, wardID))
	_, _ = h.WriteString(strings.ToLower(strings.Join(strings.Fields(description), " ")))
	return fmt.Sprintf("%016x", h.Sum64())
}

// ClaimFingerprint reserves a fingerprint for dupeTTL. Returns false when
// the same complaint was already submitted within the window.
func ClaimFingerprint(ctx context.Context, rdb *redis.Client, fp string) (bool, error) {
	return rdb.SetNX(ctx, dupePrefix+fp, "1", dupeTTL).Result()
}

// PublishComplaintEvent appends a lifecycle event to the notifier stream.
func PublishComplaintEvent(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamEvents,
		Values: payload,
	}).Result()
	return err
}

func CacheWardProfile(ctx context.Context, rdb *redis.Client, wardID int, body []byte) error {
	return rdb.Set(ctx, fmt.Sprintf("%s%d", profilePrefix, wardID), body, profileTTL).Err()
}

func CachedWardProfile(ctx context.Context, rdb *redis.Client, wardID int) ([]byte, error) {
	return rdb.Get(ctx, fmt.Sprintf("%s%d", profilePrefix, wardID)).Bytes()
}
