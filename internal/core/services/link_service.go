package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

const ActionCompleteTodo = "complete_todo"

// LinkService signs the one-click action links embedded in digest emails.
type LinkService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
}

func NewLinkService(secretKey string, issuer string, tokenDuration time.Duration) *LinkService {
	return &LinkService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
	}
}

type LinkClaims struct {
	UserID string
	TodoID string
	Action string
}

func (s *LinkService) Sign(userID, todoID, action string) (string, error) {
	claims := jwt.MapClaims{
		"sub": todoID,
		"uid": userID,
		"act": action,
		"exp": time.Now().Add(s.tokenDuration).Unix(),
		"iat": time.Now().Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("link service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *LinkService) Parse(tokenString string) (*LinkClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLinkToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidLinkToken
	}

	todoID, _ := claims["sub"].(string)
	userID, _ := claims["uid"].(string)
	action, _ := claims["act"].(string)
	if todoID == "" || userID == "" || action == "" {
		return nil, domain.ErrInvalidLinkToken
	}

	return &LinkClaims{UserID: userID, TodoID: todoID, Action: action}, nil
}
