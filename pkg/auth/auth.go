package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultBcryptCost = 14

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
)

var jwtAlgorithm = jwt.SigningMethodHS256

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator signs admin tokens and facility API keys
type Authenticator struct {
	JWTSecret    []byte
	MasterSecret []byte
	TokenTTL     time.Duration
	BcryptCost   int
}

// New creates an authenticator with a 24h token lifetime
func New(jwtSecret, masterSecret string) *Authenticator {
	return &Authenticator{
		JWTSecret:    []byte(jwtSecret),
		MasterSecret: []byte(masterSecret),
		TokenTTL:     24 * time.Hour,
		BcryptCost:   defaultBcryptCost,
	}
}

// HashPassword hashes a password using bcrypt
func (a *Authenticator) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), a.BcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for an admin
func (a *Authenticator) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(a.JWTSecret)
}

// VerifyToken verifies a JWT token
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, ErrInvalidToken
		}
		return a.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateAPIKey creates a facility key of the form <facility>.<hmac>
func (a *Authenticator) GenerateAPIKey(facilityID string) string {
	return facilityID + "." + a.sign(facilityID)
}

// VerifyAPIKey validates a facility key and returns the facility ID
func (a *Authenticator) VerifyAPIKey(key string) (string, error) {
	i := strings.LastIndex(key, ".")
	if i <= 0 || i == len(key)-1 {
		return "", ErrInvalidKeyFormat
	}
	facilityID, provided := key[:i], key[i+1:]

	if !hmac.Equal([]byte(provided), []byte(a.sign(facilityID))) {
		return "", ErrInvalidSignature
	}
	return facilityID, nil
}

func (a *Authenticator) sign(facilityID string) string {
	h := hmac.New(sha256.New, a.MasterSecret)
	h.Write([]byte(facilityID))
	return hex.EncodeToString(h.Sum(nil))
}

// KeyPreview shortens a key for listing, e.g. "fac...9f3a"
func KeyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// EnsureAdminExists creates the first admin when the master_users table is empty
func (a *Authenticator) EnsureAdminExists(db *gorm.DB, username, password string, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.Create(&database.MasterUser{Username: username, PasswordHash: hash}).Error; err != nil {
		return err
	}
	logger.Info("default admin user created", zap.String("username", username))
	return nil
}
