package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Auth выпускает и проверяет bearer-токены пользователей.
type Auth struct {
	SecretKey string
}

// Claims — полезная нагрузка токена.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func New(secret string) *Auth {
	return &Auth{SecretKey: secret}
}

// IssueToken выпускает подписанный HS256-токен для пользователя.
func (a *Auth) IssueToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.SecretKey))
}

// ParseToken проверяет подпись и срок токена, возвращает идентификатор пользователя.
func (a *Auth) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(a.SecretKey), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	return claims.UserID, nil
}

// UserIDFromRequest извлекает пользователя из заголовка Authorization.
// Толерантный режим: отсутствующий или невалидный токен даёт пустой
// идентификатор, а не ошибку.
func (a *Auth) UserIDFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	userID, err := a.ParseToken(tokenStr)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

// HashPassword хэширует пароль bcrypt-ом.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хэшем.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
