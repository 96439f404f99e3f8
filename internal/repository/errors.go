package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorClass 数据库错误分类
type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
	ErrorClassDuplicate
)

// ClassifyError 按驱动错误码对数据库错误分类
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorClassDuplicate
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001":
			return ErrorClassSerialization
		case "40P01":
			return ErrorClassDeadlock
		case "55P03":
			return ErrorClassTransient
		case "23505":
			return ErrorClassDuplicate
		}
		return ErrorClassPermanent
	}

	// sqlite 驱动只暴露文本错误
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return ErrorClassDuplicate
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "sqlite_busy"):
		return ErrorClassTransient
	}
	return ErrorClassPermanent
}

// IsRetryable 判断错误是否可通过重试事务恢复
func IsRetryable(err error) bool {
	switch ClassifyError(err) {
	case ErrorClassTransient, ErrorClassDeadlock, ErrorClassSerialization:
		return true
	default:
		return false
	}
}

// IsDuplicate 判断是否唯一约束冲突
func IsDuplicate(err error) bool {
	return ClassifyError(err) == ErrorClassDuplicate
}
