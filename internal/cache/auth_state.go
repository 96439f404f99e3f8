package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/minishop-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

type authSubject string

const (
	subjectUser  authSubject = "user"
	subjectAdmin authSubject = "admin"
)

// UserAuthState 买家鉴权快照，token_invalid_before 为 Unix 秒，0 表示未设置
type UserAuthState struct {
	UserID             uint   `json:"user_id"`
	Status             string `json:"status"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

// AdminAuthState 后台账号鉴权快照
type AdminAuthState struct {
	AdminID            uint   `json:"admin_id"`
	Username           string `json:"username"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	IsSuper            bool   `json:"is_super"`
	UpdatedAt          int64  `json:"updated_at"`
}

func authStateKey(subject authSubject, id uint) string {
	return fmt.Sprintf("auth:%s:%d", subject, id)
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// BuildUserAuthState 由用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:             user.ID,
		Status:             user.Status,
		TokenVersion:       user.TokenVersion,
		TokenInvalidBefore: unixOrZero(user.TokenInvalidBefore),
		UpdatedAt:          time.Now().Unix(),
	}
}

// BuildAdminAuthState 由后台账号记录生成快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:            admin.ID,
		Username:           admin.Username,
		TokenVersion:       admin.TokenVersion,
		TokenInvalidBefore: unixOrZero(admin.TokenInvalidBefore),
		IsSuper:            admin.IsSuper,
		UpdatedAt:          time.Now().Unix(),
	}
}

func loadAuthState[T any](ctx context.Context, subject authSubject, id uint) (*T, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	state := new(T)
	hit, err := GetJSON(ctx, authStateKey(subject, id), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

func storeAuthState(ctx context.Context, subject authSubject, id uint, state interface{}) error {
	if id == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(subject, id), state, authStateCacheTTL)
}

// GetUserAuthState 读取买家鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return loadAuthState[UserAuthState](ctx, subjectUser, userID)
}

// SetUserAuthState 覆盖买家鉴权快照，改密或重置密码后调用
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, subjectUser, state.UserID, state)
}

// GetAdminAuthState 读取后台账号鉴权快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	return loadAuthState[AdminAuthState](ctx, subjectAdmin, adminID)
}

// SetAdminAuthState 覆盖后台账号鉴权快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, subjectAdmin, state.AdminID, state)
}
