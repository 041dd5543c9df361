package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shift-hub/backend/internal/model"
	pkgerrors "shift-hub/backend/pkg/errors"
)

// AttendanceRepository 考勤记录数据访问接口（只增改，不删除）
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByShiftAndStudent(ctx context.Context, shiftID, studentID string) (*model.AttendanceRecord, error)
	Update(ctx context.Context, record *model.AttendanceRecord) error
	ListByShift(ctx context.Context, shiftID string) ([]model.AttendanceRecord, error)
	ListByStudentStatus(ctx context.Context, studentID, status string) ([]model.AttendanceRecord, error)
	ListByStudentStatusClockInBetween(ctx context.Context, studentID, status string, from, to time.Time) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetByShiftAndStudent(ctx context.Context, shiftID, studentID string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND student_id = ?", shiftID, studentID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update 基于 version 的乐观锁更新
func (r *attendanceRepo) Update(ctx context.Context, record *model.AttendanceRecord) error {
	oldVersion := record.Version
	result := r.db.WithContext(ctx).
		Model(record).
		Where("attendance_id = ? AND version = ?", record.AttendanceID, oldVersion).
		Updates(map[string]interface{}{
			"clock_out_time":      record.ClockOutTime,
			"attendance_status":   record.AttendanceStatus,
			"verification_status": record.VerificationStatus,
			"verified_by":         record.VerifiedBy,
			"verified_at":         record.VerifiedAt,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version = oldVersion + 1
	return nil
}

func (r *attendanceRepo) ListByShift(ctx context.Context, shiftID string) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("clock_in_time ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByStudentStatus(ctx context.Context, studentID, status string) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND attendance_status = ?", studentID, status).
		Find(&list).Error
	return list, err
}

// ListByStudentStatusClockInBetween 打卡时间落在 [from, to] 闭区间内的记录
func (r *attendanceRepo) ListByStudentStatusClockInBetween(ctx context.Context, studentID, status string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND attendance_status = ?", studentID, status).
		Where("clock_in_time >= ? AND clock_in_time <= ?", from, to).
		Find(&list).Error
	return list, err
}
