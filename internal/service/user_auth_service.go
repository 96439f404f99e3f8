package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/minishop-next/internal/cache"
	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/i18n"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/queue"
	"github.com/minishop-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountTaskQueue 账号相关邮件任务
type AccountTaskQueue interface {
	Enabled() bool
	EnqueueUserWelcomeEmail(payload queue.UserEmailPayload) error
	EnqueuePasswordResetEmail(payload queue.PasswordResetEmailPayload) error
}

// SignupInput 注册输入
type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	transactor   repository.Transactor
	userRepo     repository.UserRepository
	cartRepo     repository.CartRepository
	resetRepo    repository.PasswordResetRepository
	tasks        AccountTaskQueue
	emailService *EmailService
	now          func() time.Time
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(
	cfg *config.Config,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	resetRepo repository.PasswordResetRepository,
	tasks AccountTaskQueue,
	emailService *EmailService,
) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		transactor:   transactor,
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		resetRepo:    resetRepo,
		tasks:        tasks,
		emailService: emailService,
		now:          time.Now,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	if expireHours <= 0 {
		expireHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Signup 注册并创建购物车，成功后投递欢迎邮件
func (s *UserAuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, wrapCause(ErrUserFetchFailed, err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Status:       constants.UserStatusActive,
	}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		_, err := s.cartRepo.WithTx(tx).GetOrCreate(user.ID)
		return err
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, wrapCause(ErrUserSaveFailed, err)
	}
	logger.Infow("user_signup", "user_id", user.ID)

	payload := queue.UserEmailPayload{UserID: user.ID, Email: user.Email}
	s.deliver(ctx, "welcome", user.Email,
		func() error { return s.tasks.EnqueueUserWelcomeEmail(payload) },
		func() error { return s.emailService.SendWelcome(ctx, user.Email, i18n.DefaultLocale) },
	)
	return user, nil
}

// Login 用户登录，rememberMe 时使用更长的有效期
func (s *UserAuthService) Login(email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, wrapCause(ErrUserFetchFailed, err)
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, wrapCause(ErrUserSaveFailed, err)
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// RequestPasswordReset 生成重置令牌并投递邮件，未注册邮箱同样返回成功
func (s *UserAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return wrapCause(ErrUserFetchFailed, err)
	}
	if user == nil {
		logger.Debugw("user_password_reset_unknown_email")
		return nil
	}

	token, err := randomHexToken(constants.PasswordResetTokenBytes)
	if err != nil {
		return err
	}
	minutes := s.cfg.Email.ResetTokenMinutes
	if minutes <= 0 {
		minutes = constants.DefaultResetTokenTTLMinutes
	}
	record := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(time.Duration(minutes) * time.Minute),
	}
	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		resets := s.resetRepo.WithTx(tx)
		if err := resets.DeleteByUser(user.ID); err != nil {
			return err
		}
		return resets.Create(record)
	})
	if err != nil {
		return wrapCause(ErrUserSaveFailed, err)
	}

	link := fmt.Sprintf("%s/reset/%s", s.cfg.Shop.BaseURL, token)
	payload := queue.PasswordResetEmailPayload{Email: user.Email, ResetLink: link, ExpiresIn: minutes}
	s.deliver(ctx, "password_reset", user.Email,
		func() error { return s.tasks.EnqueuePasswordResetEmail(payload) },
		func() error {
			return s.emailService.SendPasswordReset(ctx, user.Email, link, minutes, i18n.DefaultLocale)
		},
	)
	return nil
}

// ResetPassword 使用令牌重置密码，旧 Token 全部失效
func (s *UserAuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return err
	}
	record, err := s.resetRepo.GetByToken(token)
	if err != nil {
		return wrapCause(ErrUserFetchFailed, err)
	}
	now := s.now()
	if record == nil || record.Expired(now) {
		return ErrResetTokenInvalid
	}
	user, err := s.userRepo.GetByID(record.UserID)
	if err != nil {
		return wrapCause(ErrUserFetchFailed, err)
	}
	if user == nil {
		return ErrResetTokenInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.TokenVersion++
	user.TokenInvalidBefore = &now

	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		resets := s.resetRepo.WithTx(tx)
		// 令牌只能被消费一次，并发重置时仅删除成功的一方继续
		consumed, err := resets.DeleteByToken(token)
		if err != nil {
			return err
		}
		if consumed != 1 {
			return ErrResetTokenInvalid
		}
		if err := s.userRepo.WithTx(tx).Update(user); err != nil {
			return err
		}
		return resets.DeleteByUser(user.ID)
	})
	if errors.Is(err, ErrResetTokenInvalid) {
		return err
	}
	if err != nil {
		return wrapCause(ErrUserSaveFailed, err)
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	logger.Infow("user_password_reset", "user_id", user.ID)
	return nil
}

// Logout 注销当前用户已签发的全部 Token
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	now := s.now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return wrapCause(ErrUserSaveFailed, err)
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	logger.Infow("user_logout", "user_id", user.ID)
	return nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, wrapCause(ErrUserFetchFailed, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// deliver 队列可用时异步投递，否则在邮件启用时同步发送；失败仅记录日志
func (s *UserAuthService) deliver(ctx context.Context, kind, email string, enqueue, sendNow func() error) {
	var err error
	switch {
	case s.tasks != nil && s.tasks.Enabled():
		err = enqueue()
	case s.emailService.Enabled():
		err = sendNow()
	default:
		logger.Debugw("user_email_skipped", "kind", kind)
		return
	}
	if err != nil {
		logger.Warnw("user_email_dispatch_failed", "kind", kind, "email", email, "error", err)
	}
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

func randomHexToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
