package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束（插入被 ON CONFLICT DO NOTHING 忽略）
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// normalizePage 把 offset/limit 纠正为合法值
func normalizePage(offset, limit, def int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = def
	}
	return offset, limit
}
