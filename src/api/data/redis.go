package data

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpPrefix      = "otp:"
	otpVerifiedKey = "otpok:"
	otpTTL         = 10 * time.Minute
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// OTPStore keeps email-verification codes in redis with an explicit expiry,
// keyed by address. Nothing here survives the TTL.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore { return &OTPStore{rdb: rdb} }

// GenerateCode returns a random 4-digit verification code.
func GenerateCode() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", binary.BigEndian.Uint64(b[:])%10000), nil
}

func (s *OTPStore) Set(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, otpPrefix+email, code, otpTTL).Err()
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.Get(ctx, otpPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return code, err
}

func (s *OTPStore) MarkVerified(ctx context.Context, email string) error {
	return s.rdb.Set(ctx, otpVerifiedKey+email, "1", otpTTL).Err()
}

func (s *OTPStore) IsVerified(ctx context.Context, email string) bool {
	ok, err := s.rdb.Get(ctx, otpVerifiedKey+email).Result()
	return err == nil && ok == "1"
}

// Clear drops both the code and the verified marker after registration.
func (s *OTPStore) Clear(ctx context.Context, email string) {
	s.rdb.Del(ctx, otpPrefix+email, otpVerifiedKey+email)
}
