package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// TokenConfig configures token signing and the API clients allowed to request tokens.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	Clients    []string
}

type apiClient struct {
	id   string
	role models.UserRole
	hash []byte
}

// TokenService issues and validates HS256 access tokens.
type TokenService struct {
	cfg       TokenConfig
	clients   map[string]apiClient
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTokenService parses the client list; malformed entries are skipped with a warning.
func NewTokenService(cfg TokenConfig, validate *validator.Validate, logger *zap.Logger) *TokenService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	clients := make(map[string]apiClient, len(cfg.Clients))
	for _, raw := range cfg.Clients {
		client, err := parseClient(raw)
		if err != nil {
			logger.Warn("skipping api client", zap.Error(err))
			continue
		}
		clients[client.id] = client
	}
	return &TokenService{cfg: cfg, clients: clients, validator: validate, logger: logger, now: time.Now}
}

func parseClient(raw string) (apiClient, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return apiClient{}, fmt.Errorf("client entry must be id:ROLE:hash")
	}
	role := models.UserRole(strings.ToUpper(parts[1]))
	if !role.Valid() {
		return apiClient{}, fmt.Errorf("client %s has unknown role %q", parts[0], parts[1])
	}
	return apiClient{id: parts[0], role: role, hash: []byte(parts[2])}, nil
}

// Authenticate exchanges client credentials for a token. Student clients must name the
// student they act for in Subject.
func (s *TokenService) Authenticate(req dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token request")
	}
	client, ok := s.clients[req.ClientID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid client credentials")
	}
	if err := bcrypt.CompareHashAndPassword(client.hash, []byte(req.ClientSecret)); err != nil {
		s.logger.Warn("client authentication failed", zap.String("client_id", req.ClientID))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid client credentials")
	}

	subject := strings.TrimSpace(req.Subject)
	if client.role == models.RoleStudent && subject == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is required for student clients")
	}
	if subject == "" {
		subject = client.id
	}
	token, expiresAt, err := s.Issue(subject, client.role, client.id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// Issue signs a token for the subject with the given role.
func (s *TokenService) Issue(subject string, role models.UserRole, name string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.cfg.Expiration)
	claims := &models.JWTClaims{
		UserID:   subject,
		Role:     role,
		FullName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
	return claims, nil
}
