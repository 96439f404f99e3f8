package repository

import (
	"errors"
	"time"

	"github.com/minishop-next/internal/models"

	"gorm.io/gorm"
)

// PasswordResetRepository 密码重置令牌数据访问接口
type PasswordResetRepository interface {
	Create(token *models.PasswordResetToken) error
	GetByToken(token string) (*models.PasswordResetToken, error)
	DeleteByToken(token string) (int64, error)
	DeleteByUser(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
	WithTx(tx *gorm.DB) PasswordResetRepository
}

// GormPasswordResetRepository GORM 实现
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository 创建密码重置令牌仓库
func NewPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPasswordResetRepository) WithTx(tx *gorm.DB) PasswordResetRepository {
	if tx == nil {
		return r
	}
	return &GormPasswordResetRepository{db: tx}
}

// Create 写入令牌
func (r *GormPasswordResetRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// GetByToken 根据令牌查询
func (r *GormPasswordResetRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// DeleteByToken 消费令牌，返回删除行数
func (r *GormPasswordResetRepository) DeleteByToken(token string) (int64, error) {
	result := r.db.Where("token = ?", token).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}

// DeleteByUser 删除用户全部令牌
func (r *GormPasswordResetRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

// DeleteExpired 清理过期令牌
func (r *GormPasswordResetRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
