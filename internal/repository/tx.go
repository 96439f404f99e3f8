package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/logger"

	"gorm.io/gorm"
)

// ErrRetriesExhausted 事务重试次数用尽
var ErrRetriesExhausted = errors.New("transaction retries exhausted")

// Transactor 事务执行接口
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TxOptions 事务选项
type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	MaxAttempts    int
	Backoff        time.Duration
}

// DefaultTxOptions 默认读已提交，最多尝试 3 次
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		MaxAttempts:    constants.DefaultCheckoutRetryAttempts,
		Backoff:        50 * time.Millisecond,
	}
}

// GormTransactor GORM 事务实现
type GormTransactor struct {
	db   *gorm.DB
	opts TxOptions
}

// NewTransactor 创建事务执行器
func NewTransactor(db *gorm.DB, opts TxOptions) *GormTransactor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &GormTransactor{db: db, opts: opts}
}

// Transaction 在事务中执行 fn，遇到串行化失败或死锁时整体重试
func (t *GormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if t == nil || t.db == nil {
		return errors.New("transactor db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := t.opts.Backoff
	var lastErr error
	for attempt := 1; attempt <= t.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = t.db.WithContext(ctx).Transaction(fn, t.txOptions())
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		logger.Warnw("repository_tx_retry",
			"attempt", attempt,
			"max_attempts", t.opts.MaxAttempts,
			"error", lastErr,
		)
		if attempt < t.opts.MaxAttempts && backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

// txOptions sqlite 不支持显式隔离级别，仅对 postgres 生效
func (t *GormTransactor) txOptions() *sql.TxOptions {
	if !isPostgresDialect(dbDialectName(t.db)) {
		return nil
	}
	return &sql.TxOptions{Isolation: t.opts.IsolationLevel}
}
