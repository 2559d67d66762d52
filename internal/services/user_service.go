package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"schemacanvas/internal/models"
	"schemacanvas/internal/repositories"
	"schemacanvas/internal/utils"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	userRepo    *repositories.UserRepository
	sessionRepo *repositories.SessionRepository
	redisRepo   *repositories.RedisRepository
}

func NewUserService(userRepo *repositories.UserRepository, sessionRepo *repositories.SessionRepository, redisRepo *repositories.RedisRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		redisRepo:   redisRepo,
	}
}

func (s *UserService) Register(ctx context.Context, user *models.User) (string, string, error) {
	existing, _ := s.userRepo.FindUserByEmail(ctx, user.Email)
	if existing != nil {
		return "", "", errors.New("user already exists")
	}

	hashedPassword, err := utils.Hash(user.Password)
	if err != nil {
		return "", "", err
	}
	user.PasswordHash = string(hashedPassword)
	user.Password = ""

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", err
	}

	return s.issueTokens(ctx, user.ID)
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil || user == nil {
		return "", "", errors.New("user not found")
	}

	if err := utils.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", "", errors.New("invalid password")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return "", "", err
	}

	return s.issueTokens(ctx, user.ID)
}

func (s *UserService) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	accessToken, _, err := utils.GenerateJWT(userID, accessTokenTTL, utils.AccessTokenSecret)
	if err != nil {
		return "", "", err
	}

	refreshToken, jti, err := utils.GenerateJWT(userID, refreshTokenTTL, utils.RefreshTokenSecret)
	if err != nil {
		return "", "", err
	}

	session := &models.Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", "", err
	}
	if err := s.redisRepo.StoreSession(ctx, jti, userID.String()); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	session, err := s.sessionRepo.FindByToken(ctx, refreshToken)
	if err != nil || session == nil {
		return "", errors.New("refresh token not found")
	}
	if session.IsRevoked {
		return "", errors.New("refresh token revoked")
	}
	if time.Now().After(session.ExpiresAt) {
		return "", errors.New("refresh token expired")
	}

	claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	blacklisted, err := s.redisRepo.IsBlacklisted(ctx, claims.ID)
	if err == nil && blacklisted {
		return "", errors.New("refresh token revoked")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	accessToken, _, err := utils.GenerateJWT(userID, accessTokenTTL, utils.AccessTokenSecret)
	if err != nil {
		return "", errors.New("could not generate new access token")
	}
	return accessToken, nil
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret); err == nil {
		_ = s.redisRepo.Blacklist(ctx, claims.ID)
		_ = s.redisRepo.DeleteSession(ctx, claims.ID)
	}
	return s.sessionRepo.Revoke(ctx, refreshToken)
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	user.PasswordHash = ""
	return user, nil
}
