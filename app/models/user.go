package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleStaff         = "staff"
	RoleOwner         = "owner"
	RolePlatformAdmin = "platform_admin"
)

const apiKeyPrefix = "mp_"

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// User is either restaurant staff (RestaurantID set) or a platform operator
// (RestaurantID nil, role platform_admin). Only active staff count toward the
// plan's max_staff limit.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	RestaurantID     *uint          `gorm:"index:idx_users_restaurant_active,priority:1" json:"restaurant_id"`
	Name             string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password         string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role             string         `gorm:"type:varchar(32);not null;default:'staff'" json:"role" validate:"oneof=staff owner platform_admin"`
	IsActive         bool           `gorm:"not null;default:true;index:idx_users_restaurant_active,priority:2" json:"is_active"`
	APIKeyHash       string         `gorm:"type:varchar(64);index" json:"-"`
	APIKeyLastUsedAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt      *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPassword verifies the given password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// SetPassword hashes and sets a new password for the user.
func (u *User) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// IssueAPIKey generates a new API key, stores its hash on the user and
// returns the raw key. The raw key is shown once and never persisted.
func (u *User) IssueAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	rawKey := apiKeyPrefix + strings.ToLower(apiKeyEncoding.EncodeToString(b))
	if len(rawKey) < 12 {
		return "", fmt.Errorf("api key generation failed: key too short")
	}
	u.APIKeyHash = HashAPIKey(rawKey)
	u.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// HashAPIKey returns the sha256 hex digest used for API key lookups.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
