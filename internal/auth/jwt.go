package auth

import (
	"errors"
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const accessTokenTTL = 30 * time.Minute

type JWT struct {
	logger    *zap.SugaredLogger
	jwtSecret string
	now       func() time.Time
}

type JWTInterface interface {
	GenerateAccessToken(payload JWTPayload) (string, error)
	VerifyJwtToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &JWT{
		jwtSecret: cfg.JWT_SECRET,
		logger:    logger,
		now:       time.Now,
	}
}

// JWTPayload is the actor issued by the identity provider.
type JWTPayload struct {
	ID      string             `json:"id"`
	Email   string             `json:"email"`
	Surname string             `json:"surname"`
	Name    string             `json:"name"`
	Role    constant.ActorRole `json:"role"`
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	Type string     `json:"type"`
	IAT  int64      `json:"iat"`
	EXP  int64      `json:"exp"`
}

var (
	ErrInvalidToken   = errors.New("jwt token is not valid")
	ErrMalformedClaim = errors.New("invalid token: user field is missing or malformed")
)

// GenerateAccessToken is used by tooling and tests; production tokens come from the identity provider.
func (j JWT) GenerateAccessToken(payload JWTPayload) (string, error) {
	j.logger.Debugf("Generate access token with payload: %v", payload)

	now := j.now()
	claims := jwt.MapClaims{
		"user": payload,
		"type": constant.JWT_TYPE_ACCESS,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.jwtSecret))
}

func (j JWT) VerifyJwtToken(token string) (*JWTClaims, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, ErrInvalidToken
	}

	user, ok := claims["user"].(map[string]interface{})
	if !ok {
		return nil, ErrMalformedClaim
	}

	id, _ := user["id"].(string)
	if id == "" {
		return nil, ErrMalformedClaim
	}
	email, _ := user["email"].(string)
	surname, _ := user["surname"].(string)
	name, _ := user["name"].(string)
	role, _ := user["role"].(string)
	tokenType, _ := claims["type"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &JWTClaims{
		User: JWTPayload{
			ID:      id,
			Email:   email,
			Surname: surname,
			Name:    name,
			Role:    constant.ActorRole(role),
		},
		Type: tokenType,
		IAT:  int64(iat),
		EXP:  int64(exp),
	}, nil
}
