package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-hub/backend/internal/dto"
	"shift-hub/backend/internal/model"
	"shift-hub/backend/internal/repository"
	pkgerrors "shift-hub/backend/pkg/errors"
	"shift-hub/backend/pkg/metrics"
)

// ── 考勤模块业务错误 ──

var (
	ErrShiftNotFound      = errors.New("班次不存在")
	ErrShiftCancelled     = errors.New("班次已取消")
	ErrNotAssigned        = errors.New("未分配到该班次")
	ErrAlreadyClockedIn   = errors.New("已打卡，不能重复打卡")
	ErrNotClockedIn       = errors.New("尚未打卡")
	ErrAlreadyClockedOut  = errors.New("已签退")
	ErrClockOutBeforeIn   = errors.New("签退时间不能早于打卡时间")
	ErrAttendanceNotFound = errors.New("考勤记录不存在")
	ErrAlreadyVerified    = errors.New("考勤记录已核验")
	ErrAttendanceConflict = errors.New("考勤记录已被其他操作修改，请刷新后重试")
)

// AttendanceService 考勤业务接口
//
// 记录在打卡时创建，签退与核验时更新，从不删除
type AttendanceService interface {
	ClockIn(ctx context.Context, shiftID, studentID string, at time.Time) (*dto.AttendanceResponse, error)
	ClockOut(ctx context.Context, shiftID, studentID string, at time.Time) (*dto.AttendanceResponse, error)
	Verify(ctx context.Context, shiftID, studentID, verifierID string) (*dto.AttendanceResponse, error)
	ListForShift(ctx context.Context, shiftID string) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo      *repository.Repository
	lateGrace time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, lateGrace time.Duration, m *metrics.Metrics, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		lateGrace: lateGrace,
		metrics:   m,
		logger:    logger,
	}
}

// ────────────────────── ClockIn ──────────────────────

func (s *attendanceService) ClockIn(ctx context.Context, shiftID, studentID string, at time.Time) (*dto.AttendanceResponse, error) {
	shift, err := s.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status == model.ShiftStatusCancelled {
		return nil, ErrShiftCancelled
	}

	if _, err := s.repo.Assignment.GetByShiftAndStudent(ctx, shiftID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		s.logger.Error("查询排班分配失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.Attendance.GetByShiftAndStudent(ctx, shiftID, studentID); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}

	// 迟到仍记为出勤，只打标记；迟到时长由工时核算计入损失工时
	clockIn := at.UTC()
	rec := &model.AttendanceRecord{
		ShiftID:            shiftID,
		StudentID:          studentID,
		ClockInTime:        &clockIn,
		AttendanceStatus:   model.AttendancePresent,
		IsLate:             clockIn.After(shift.ScheduledStart.Add(s.lateGrace)),
		VerificationStatus: model.VerificationPending,
	}
	if err := s.repo.Attendance.Create(ctx, rec); err != nil {
		// 并发重复打卡由唯一索引拦截
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAlreadyClockedIn
		}
		s.logger.Error("创建考勤记录失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncAttendance("clock_in")
	s.logger.Info("学生打卡",
		zap.String("shift_id", shiftID),
		zap.String("student_id", studentID),
		zap.Bool("is_late", rec.IsLate),
	)
	resp := toAttendanceResponse(rec)
	return &resp, nil
}

// ────────────────────── ClockOut ──────────────────────

func (s *attendanceService) ClockOut(ctx context.Context, shiftID, studentID string, at time.Time) (*dto.AttendanceResponse, error) {
	rec, err := s.repo.Attendance.GetByShiftAndStudent(ctx, shiftID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		s.logger.Error("查询考勤记录失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}
	if rec.ClockInTime == nil {
		return nil, ErrNotClockedIn
	}
	if rec.ClockOutTime != nil {
		return nil, ErrAlreadyClockedOut
	}

	clockOut := at.UTC()
	if clockOut.Before(*rec.ClockInTime) {
		return nil, ErrClockOutBeforeIn
	}
	rec.ClockOutTime = &clockOut

	if err := s.repo.Attendance.Update(ctx, rec); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrAttendanceConflict
		}
		s.logger.Error("更新考勤记录失败", zap.String("attendance_id", rec.AttendanceID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncAttendance("clock_out")
	resp := toAttendanceResponse(rec)
	return &resp, nil
}

// ────────────────────── Verify ──────────────────────

func (s *attendanceService) Verify(ctx context.Context, shiftID, studentID, verifierID string) (*dto.AttendanceResponse, error) {
	rec, err := s.repo.Attendance.GetByShiftAndStudent(ctx, shiftID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询考勤记录失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}
	if rec.VerificationStatus == model.VerificationVerified {
		return nil, ErrAlreadyVerified
	}

	now := time.Now().UTC()
	rec.VerificationStatus = model.VerificationVerified
	rec.VerifiedBy = &verifierID
	rec.VerifiedAt = &now

	if err := s.repo.Attendance.Update(ctx, rec); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrAttendanceConflict
		}
		s.logger.Error("核验考勤记录失败", zap.String("attendance_id", rec.AttendanceID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncAttendance("verify")
	resp := toAttendanceResponse(rec)
	return &resp, nil
}

// ────────────────────── ListForShift ──────────────────────

func (s *attendanceService) ListForShift(ctx context.Context, shiftID string) ([]dto.AttendanceResponse, error) {
	if _, err := s.getShift(ctx, shiftID); err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByShift(ctx, shiftID)
	if err != nil {
		s.logger.Error("查询班次考勤失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		list = append(list, toAttendanceResponse(&records[i]))
	}
	return list, nil
}

// ── 辅助函数 ──

func (s *attendanceService) getShift(ctx context.Context, shiftID string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("shift_id", shiftID), zap.Error(err))
		return nil, err
	}
	return shift, nil
}

func toAttendanceResponse(rec *model.AttendanceRecord) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		AttendanceID:       rec.AttendanceID,
		ShiftID:            rec.ShiftID,
		StudentID:          rec.StudentID,
		ClockInTime:        formatTimePtr(rec.ClockInTime),
		ClockOutTime:       formatTimePtr(rec.ClockOutTime),
		AttendanceStatus:   rec.AttendanceStatus,
		IsLate:             rec.IsLate,
		VerificationStatus: rec.VerificationStatus,
		VerifiedBy:         rec.VerifiedBy,
		VerifiedAt:         formatTimePtr(rec.VerifiedAt),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
