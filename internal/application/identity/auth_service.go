package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResult contains the issued tokens and the member's identity
type LoginResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	Member MemberInfo      `json:"member"`
}

// MemberInfo is the member identity echoed back on login
type MemberInfo struct {
	ID      string `json:"id"`
	HouseID string `json:"house_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// AuthService handles member authentication
type AuthService struct {
	memberRepo household.MemberRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(memberRepo household.MemberRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a member by email and password and issues tokens.
// Lookup failures and bad passwords produce the same error so the
// response does not reveal which emails exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	member, err := s.memberRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !member.Active {
		s.logger.Warn("Login attempt for deactivated member", zap.String("member_id", member.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("member_id", member.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  member.ID,
		HouseID: member.HouseID,
		Role:    member.Role.String(),
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue tokens")
	}

	s.logger.Info("Member logged in",
		zap.String("member_id", member.ID.String()),
		zap.String("house_id", member.HouseID.String()))

	return &LoginResult{
		Tokens: tokens,
		Member: MemberInfo{
			ID:      member.ID.String(),
			HouseID: member.HouseID.String(),
			Name:    member.Name,
			Email:   member.Email,
			Role:    member.Role.String(),
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// member's current role and status are re-read so a deactivation or
// role change takes effect at the next refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is not valid")
	}

	memberID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is not valid")
	}
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is not valid")
	}
	if !member.Active {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	tokens, err := s.jwtService.RefreshTokenPair(req.RefreshToken, member.Role.String())
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is not valid")
	}
	return tokens, nil
}
