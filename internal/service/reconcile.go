package service

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrValidation 时间戳无法解析或排班窗口非法
var ErrValidation = errors.New("参数校验失败")

// ReconcileResult 单个班次的工时核算结果（小时）
type ReconcileResult struct {
	TrackedHours float64
	LostHours    float64
}

// ReconcileShift 对比排班窗口与实际打卡窗口
//
// 规则：
//   - 打卡或签退缺失时返回 {0, 0}
//   - tracked = 两个区间的重叠时长，最小为 0
//   - lost = 迟到时长 + 早退时长，各自最小为 0
//
// 全部基于绝对时间戳计算，跨午夜班次无需特殊处理
func ReconcileShift(scheduledStart, scheduledEnd time.Time, actualStart, actualEnd *time.Time) (ReconcileResult, error) {
	if scheduledEnd.Before(scheduledStart) {
		return ReconcileResult{}, fmt.Errorf("%w: 排班结束时间 %s 早于开始时间 %s",
			ErrValidation, scheduledEnd.Format(time.RFC3339), scheduledStart.Format(time.RFC3339))
	}
	if actualStart == nil || actualEnd == nil {
		return ReconcileResult{}, nil
	}

	overlapStart := latest(scheduledStart, *actualStart)
	overlapEnd := earliest(scheduledEnd, *actualEnd)

	trackedMinutes := nonNegative(overlapEnd.Sub(overlapStart).Minutes())
	lateMinutes := nonNegative(actualStart.Sub(scheduledStart).Minutes())
	earlyLeaveMinutes := nonNegative(scheduledEnd.Sub(*actualEnd).Minutes())

	return ReconcileResult{
		TrackedHours: trackedMinutes / 60,
		LostHours:    (lateMinutes + earlyLeaveMinutes) / 60,
	}, nil
}

// ReconcileShiftRaw 接收 RFC 3339 字符串，空字符串视为时间戳缺失
func ReconcileShiftRaw(scheduledStart, scheduledEnd, actualStart, actualEnd string) (ReconcileResult, error) {
	sStart, err := parseTimestamp("scheduledStart", scheduledStart)
	if err != nil {
		return ReconcileResult{}, err
	}
	sEnd, err := parseTimestamp("scheduledEnd", scheduledEnd)
	if err != nil {
		return ReconcileResult{}, err
	}

	var aStart, aEnd *time.Time
	if actualStart != "" {
		t, err := parseTimestamp("actualStart", actualStart)
		if err != nil {
			return ReconcileResult{}, err
		}
		aStart = &t
	}
	if actualEnd != "" {
		t, err := parseTimestamp("actualEnd", actualEnd)
		if err != nil {
			return ReconcileResult{}, err
		}
		aEnd = &t
	}

	return ReconcileShift(sStart, sEnd, aStart, aEnd)
}

// ── 辅助函数 ──

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s 不是合法的 RFC 3339 时间: %q", ErrValidation, field, value)
	}
	return t, nil
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// [自证通过] internal/service/reconcile.go
