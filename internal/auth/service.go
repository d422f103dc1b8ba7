package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/logger"
	"github.com/luchocam/ridelima/pkg/validation"
)

// Service mints demo sessions. Every login creates a fresh identity with
// the requested role; profiles live in memory for the life of the process.
type Service struct {
	jwtSecret  string
	expiration time.Duration

	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

// NewService creates a new auth service
func NewService(jwtSecret string, expirationHours int) *Service {
	return &Service{
		jwtSecret:  jwtSecret,
		expiration: time.Duration(expirationHours) * time.Hour,
		users:      make(map[uuid.UUID]*User),
	}
}

// Login accepts any credentials and returns a signed session token for
// the requested role. Driver sessions must name a vehicle category.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}
	if req.Role == string(RoleDriver) && req.VehicleCategory == "" {
		return nil, common.NewBadRequestError("driver login requires a vehicle category", nil)
	}

	name := req.Name
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	user := &User{
		ID:              uuid.New(),
		Email:           req.Email,
		Name:            name,
		Role:            Role(req.Role),
		VehicleCategory: req.VehicleCategory,
	}

	s.mu.Lock()
	uc := *user
	s.users[user.ID] = &uc
	s.mu.Unlock()

	expiresAt := time.Now().Add(s.expiration)
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	if user.VehicleCategory != "" {
		claims["vehicle_category"] = user.VehicleCategory
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, common.NewInternalServerError("failed to sign session token")
	}

	logger.WithContext(ctx).Info("Session created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// GetUser returns the profile behind a session
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, common.NewNotFoundError("session user not found", nil)
	}
	uc := *user
	return &uc, nil
}

// UpdateProfile edits the name and phone of the session profile
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, common.NewNotFoundError("session user not found", nil)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	uc := *user
	return &uc, nil
}
