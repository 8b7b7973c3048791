package util

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/logutils"
)

type (
	JWTClaims struct {
		ProfileID uint          `json:"pi"`
		UserID    string        `json:"ui"`
		Username  string        `json:"un"`
		Role      model.AppRole `json:"rl"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		ProfileID uint          `json:"profileId"` // Profile ID
		UserID    string        `json:"userId"`    // Auth user reference
		Username  string        `json:"username"`  // Display name
		Role      model.AppRole `json:"role"`      // Platform role (admin, colaborador)
	}
)

type TokenManager struct {
	secretKey      string
	accessTokenTTL int
	now            func() time.Time
}

func NewTokenManager(secretKey string, accessTokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey:      secretKey,
		accessTokenTTL: accessTokenTTL,
		now:            time.Now,
	}
}

// CreateToken signs an access token valid for the configured number of hours.
func (tm *TokenManager) CreateToken(msg *JWTMessage) (string, error) {
	expiresAt := tm.now().Add(time.Hour * time.Duration(tm.accessTokenTTL))
	claims := &JWTClaims{
		ProfileID: msg.ProfileID,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Role:      msg.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(tm.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.secretKey))
	if err != nil {
		logutils.Log.Error(err)
		return "", err
	}
	return signed, nil
}

func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(tm.secretKey), nil
	})
	return JWTMessage{
		ProfileID: claims.ProfileID,
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
	}, err
}
