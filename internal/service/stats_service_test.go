package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"shift-hub/backend/config"
	"shift-hub/backend/internal/dto"
	"shift-hub/backend/internal/model"
	"shift-hub/backend/pkg/metrics"
)

// ── 测试辅助 ──

const statsUser = "stu-1"

var statsRef = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func setupTestStatsService() (StatsService, *mockRepos) {
	mocks := newMockRepos()
	m := metrics.New()
	identity := NewIdentityService(mocks.repo, m, zap.NewNop())
	cfg := &config.StatsConfig{Palette: []string{"#0747b6", "#2265d8", "#2f91fa"}}
	return NewStatsService(cfg, mocks.repo, identity, m, zap.NewNop()), mocks
}

func utc(y int, mo time.Month, d, h, mi int) time.Time {
	return time.Date(y, mo, d, h, mi, 0, 0, time.UTC)
}

func addMembership(m *mockRepos, projectID, status string) {
	_ = m.projects.AddMember(context.Background(), &model.ProjectMember{
		MemberID:       "mem-" + projectID,
		ProjectID:      projectID,
		UserID:         statsUser,
		UserRole:       model.RoleStudent,
		MembershipType: model.MembershipStudent,
		Status:         status,
	})
}

func addShift(m *mockRepos, shiftID, projectID string, start, end time.Time) {
	_ = m.shifts.Create(context.Background(), &model.Shift{
		ShiftID:        shiftID,
		ProjectID:      projectID,
		Date:           start,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         model.ShiftStatusPublished,
	})
}

func addAttendance(m *mockRepos, shiftID, status string, in, out time.Time) {
	_ = m.attendance.Create(context.Background(), &model.AttendanceRecord{
		ShiftID:            shiftID,
		StudentID:          statsUser,
		ClockInTime:        timePtr(in),
		ClockOutTime:       timePtr(out),
		AttendanceStatus:   status,
		VerificationStatus: model.VerificationPending,
	})
}

// seedStatsFixture 三个项目：
//   - p1 进行中 + 有效成员：2 月 4h 全勤、3 月迟到早退
//   - p2 进行中 + 失效成员：3 月早到晚走
//   - p3 已完成 + 有效成员：仅有一条 absent 记录（不计入）
func seedStatsFixture(m *mockRepos) {
	_ = m.projects.Create(context.Background(), &model.Project{ProjectID: "p1", Name: "Gate A", Status: model.ProjectStatusActive})
	_ = m.projects.Create(context.Background(), &model.Project{ProjectID: "p2", Name: "Gate B", Status: model.ProjectStatusActive})
	_ = m.projects.Create(context.Background(), &model.Project{ProjectID: "p3", Name: "Warehouse", Status: model.ProjectStatusCompleted})

	addMembership(m, "p1", model.MemberStatusActive)
	addMembership(m, "p2", model.MemberStatusInactive)
	addMembership(m, "p3", model.MemberStatusActive)

	addShift(m, "s0", "p1", utc(2025, 2, 10, 9, 0), utc(2025, 2, 10, 13, 0))
	addShift(m, "s1", "p1", utc(2025, 3, 10, 9, 0), utc(2025, 3, 10, 17, 0))
	addShift(m, "s2", "p2", utc(2025, 3, 11, 9, 0), utc(2025, 3, 11, 17, 0))
	addShift(m, "s3", "p3", utc(2025, 3, 12, 9, 0), utc(2025, 3, 12, 17, 0))
	addShift(m, "s4", "p1", utc(2025, 3, 25, 9, 0), utc(2025, 3, 25, 17, 0))
	addShift(m, "s5", "p2", utc(2025, 4, 2, 9, 0), utc(2025, 4, 2, 17, 0))

	addAttendance(m, "s0", model.AttendancePresent, utc(2025, 2, 10, 9, 0), utc(2025, 2, 10, 13, 0))
	addAttendance(m, "s1", model.AttendancePresent, utc(2025, 3, 10, 9, 15), utc(2025, 3, 10, 16, 50))
	addAttendance(m, "s2", model.AttendancePresent, utc(2025, 3, 11, 8, 45), utc(2025, 3, 11, 17, 10))
	addAttendance(m, "s3", model.AttendanceAbsent, utc(2025, 3, 12, 9, 30), utc(2025, 3, 12, 17, 0))

	for _, a := range []model.ShiftAssignment{
		{AssignmentID: "a1", ShiftID: "s1", StudentID: statsUser, Status: model.AssignmentStatusCompleted},
		{AssignmentID: "a4", ShiftID: "s4", StudentID: statsUser, Status: model.AssignmentStatusAssigned},
		{AssignmentID: "a5", ShiftID: "s5", StudentID: statsUser, Status: model.AssignmentStatusCancelled},
	} {
		a := a
		_ = m.assignments.Create(context.Background(), &a)
	}

	m.stores[model.RoleStudent].add(&model.Worker{
		UserID: statsUser, Email: "stu@example.com",
		Student: &model.StudentProfile{AvailabilityStatus: model.AvailabilityActive, PunctualityScore: 88},
	})
}

func assertZeroed(t *testing.T, got *dto.StudentProjectStats) {
	t.Helper()
	if !reflect.DeepEqual(got, dto.ZeroStudentProjectStats()) {
		t.Errorf("期望全零结果，实际=%+v", got)
	}
}

// ── Aggregate 测试 ──

func TestStatsService_Aggregate_FullPipeline(t *testing.T) {
	svc, mocks := setupTestStatsService()
	seedStatsFixture(mocks)

	got := svc.Aggregate(context.Background(), statsUser, statsRef)

	if got.TotalProjects != 3 {
		t.Errorf("totalProjects 期望 3，实际=%d", got.TotalProjects)
	}
	if got.ActiveProjects != 1 {
		t.Errorf("activeProjects 期望 1（仅 p1 双条件满足），实际=%d", got.ActiveProjects)
	}
	if len(got.ProjectHours) != 2 {
		t.Fatalf("projectHours 应排除无工时项目，期望 2 条，实际=%d", len(got.ProjectHours))
	}

	p1 := got.ProjectHours[0]
	if p1.ProjectID != "p1" || p1.TrackedHours != 11.58 || p1.LostHours != 0.42 || p1.ShiftsCompleted != 2 {
		t.Errorf("p1 汇总不符: %+v", p1)
	}
	if p1.Color != "#0747b6" || p1.MembershipStatus != model.MemberStatusActive || p1.ProjectStatus != model.ProjectStatusActive {
		t.Errorf("p1 附加字段不符: %+v", p1)
	}

	p2 := got.ProjectHours[1]
	if p2.ProjectID != "p2" || p2.TrackedHours != 8 || p2.LostHours != 0 || p2.ShiftsCompleted != 1 {
		t.Errorf("p2 汇总不符: %+v", p2)
	}
	if p2.Color != "#2265d8" || p2.MembershipStatus != model.MemberStatusInactive {
		t.Errorf("p2 附加字段不符: %+v", p2)
	}

	if got.TotalMonthlyHours != 19.58 {
		t.Errorf("totalMonthlyHours 期望 19.58，实际=%v", got.TotalMonthlyHours)
	}
	if got.TotalLostHours != 0.42 {
		t.Errorf("totalLostHours 期望 0.42，实际=%v", got.TotalLostHours)
	}
	if got.CompletedShiftsCount != 2 {
		t.Errorf("completedShiftsCount 仅统计本月 present 记录，期望 2，实际=%d", got.CompletedShiftsCount)
	}
	if got.UpcomingShiftsCount != 1 {
		t.Errorf("upcomingShiftsCount 仅统计 assigned 且未开始的班次，期望 1，实际=%d", got.UpcomingShiftsCount)
	}
	if got.PunctualityScore != 88 {
		t.Errorf("punctualityScore 期望 88，实际=%v", got.PunctualityScore)
	}
}

func TestStatsService_Aggregate_ZeroMemberships(t *testing.T) {
	svc, _ := setupTestStatsService()

	got := svc.Aggregate(context.Background(), "nobody", statsRef)
	assertZeroed(t, got)
	if got.ProjectHours == nil {
		t.Error("projectHours 应为空数组而非 nil")
	}
}

func TestStatsService_Aggregate_ZeroMembershipsMatchesFailureResult(t *testing.T) {
	svc, mocks := setupTestStatsService()
	mocks.stores[model.RoleStudent].add(&model.Worker{
		UserID:  statsUser,
		Student: &model.StudentProfile{PunctualityScore: 73},
	})

	noMembership := svc.Aggregate(context.Background(), statsUser, statsRef)
	assertZeroed(t, noMembership)

	failSvc, failMocks := setupTestStatsService()
	seedStatsFixture(failMocks)
	failMocks.shifts.err = errors.New("store unreachable")
	failed := failSvc.Aggregate(context.Background(), statsUser, statsRef)

	if !reflect.DeepEqual(noMembership, failed) {
		t.Errorf("无成员关系与失败降级结果应一致: %+v vs %+v", noMembership, failed)
	}
}

// 打卡 → 签退 → 聚合，全部经由 AttendanceService 写入
func TestStatsService_Aggregate_LateClockInCountsAsLostHours(t *testing.T) {
	svc, mocks := setupTestStatsService()
	attendance := NewAttendanceService(mocks.repo, 5*time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	_ = mocks.projects.Create(ctx, &model.Project{ProjectID: "p1", Name: "Gate A", Status: model.ProjectStatusActive})
	addMembership(mocks, "p1", model.MemberStatusActive)
	addShift(mocks, "s1", "p1", utc(2025, 3, 10, 9, 0), utc(2025, 3, 10, 17, 0))
	_ = mocks.assignments.Create(ctx, &model.ShiftAssignment{
		AssignmentID: "a1", ShiftID: "s1", StudentID: statsUser, Status: model.AssignmentStatusAssigned,
	})

	in, err := attendance.ClockIn(ctx, "s1", statsUser, utc(2025, 3, 10, 9, 15))
	if err != nil {
		t.Fatalf("ClockIn 应成功: %v", err)
	}
	if in.AttendanceStatus != model.AttendancePresent || !in.IsLate {
		t.Errorf("迟到打卡应为 present 且 isLate=true，实际=%+v", in)
	}
	if _, err := attendance.ClockOut(ctx, "s1", statsUser, utc(2025, 3, 10, 16, 50)); err != nil {
		t.Fatalf("ClockOut 应成功: %v", err)
	}

	got := svc.Aggregate(ctx, statsUser, statsRef)

	if len(got.ProjectHours) != 1 {
		t.Fatalf("期望 1 个项目明细，实际=%d", len(got.ProjectHours))
	}
	p := got.ProjectHours[0]
	if !approxEqual(p.TrackedHours, 7.58) || !approxEqual(p.LostHours, 0.42) || p.ShiftsCompleted != 1 {
		t.Errorf("项目工时不符: %+v", p)
	}
	if !approxEqual(got.TotalMonthlyHours, 7.58) || !approxEqual(got.TotalLostHours, 0.42) {
		t.Errorf("月度合计不符: tracked=%v lost=%v", got.TotalMonthlyHours, got.TotalLostHours)
	}
	if got.CompletedShiftsCount != 1 {
		t.Errorf("completedShiftsCount 期望 1，实际=%d", got.CompletedShiftsCount)
	}
}

func TestStatsService_Aggregate_ActiveProjectRequiresBothConditions(t *testing.T) {
	svc, mocks := setupTestStatsService()
	_ = mocks.projects.Create(context.Background(), &model.Project{ProjectID: "pa", Status: model.ProjectStatusActive})
	_ = mocks.projects.Create(context.Background(), &model.Project{ProjectID: "pb", Status: model.ProjectStatusSuspended})
	addMembership(mocks, "pa", model.MemberStatusInactive)
	addMembership(mocks, "pb", model.MemberStatusActive)

	got := svc.Aggregate(context.Background(), statsUser, statsRef)
	if got.TotalProjects != 2 {
		t.Errorf("totalProjects 期望 2，实际=%d", got.TotalProjects)
	}
	if got.ActiveProjects != 0 {
		t.Errorf("单一条件满足不应计入 activeProjects，实际=%d", got.ActiveProjects)
	}
}

func TestStatsService_Aggregate_PaletteCycles(t *testing.T) {
	svc, mocks := setupTestStatsService()
	ids := []string{"c1", "c2", "c3", "c4"}
	for i, id := range ids {
		_ = mocks.projects.Create(context.Background(), &model.Project{ProjectID: id, Name: id, Status: model.ProjectStatusActive})
		addMembership(mocks, id, model.MemberStatusActive)
		start := utc(2025, 3, 1+i, 9, 0)
		addShift(mocks, "sh-"+id, id, start, start.Add(time.Hour))
		addAttendance(mocks, "sh-"+id, model.AttendancePresent, start, start.Add(time.Hour))
	}

	got := svc.Aggregate(context.Background(), statsUser, statsRef)
	if len(got.ProjectHours) != 4 {
		t.Fatalf("期望 4 条项目工时，实际=%d", len(got.ProjectHours))
	}
	if got.ProjectHours[3].Color != "#0747b6" {
		t.Errorf("第 4 个项目应回到首色，实际=%s", got.ProjectHours[3].Color)
	}
}

func TestStatsService_Aggregate_MonthBoundaryInclusive(t *testing.T) {
	svc, mocks := setupTestStatsService()
	_ = mocks.projects.Create(context.Background(), &model.Project{ProjectID: "p1", Status: model.ProjectStatusActive})
	addMembership(mocks, "p1", model.MemberStatusActive)
	first := utc(2025, 3, 1, 0, 0)
	addShift(mocks, "edge", "p1", first, first.Add(2*time.Hour))
	addAttendance(mocks, "edge", model.AttendancePresent, first, first.Add(2*time.Hour))

	got := svc.Aggregate(context.Background(), statsUser, statsRef)
	if got.CompletedShiftsCount != 1 {
		t.Errorf("月初零点打卡应计入本月，实际=%d", got.CompletedShiftsCount)
	}
}

// ── 失败降级测试 ──

func TestStatsService_Aggregate_StageFailuresYieldZeroed(t *testing.T) {
	storeErr := errors.New("store unreachable")
	cases := []struct {
		name   string
		inject func(m *mockRepos)
	}{
		{"memberships", func(m *mockRepos) { m.projects.membershipsErr = storeErr }},
		{"projects", func(m *mockRepos) { m.projects.projectsErr = storeErr }},
		{"shifts", func(m *mockRepos) { m.shifts.err = storeErr }},
		{"shifts_panic", func(m *mockRepos) { m.shifts.panics = true }},
		{"assignments", func(m *mockRepos) { m.assignments.err = storeErr }},
		{"attendance", func(m *mockRepos) { m.attendance.err = storeErr }},
		{"monthly_attendance", func(m *mockRepos) { m.attendance.rangeErr = storeErr }},
		{"malformed_shift", func(m *mockRepos) {
			// 结束早于开始的脏数据
			addShift(m, "bad", "p1", utc(2025, 3, 5, 17, 0), utc(2025, 3, 5, 9, 0))
			addAttendance(m, "bad", model.AttendancePresent, utc(2025, 3, 5, 9, 0), utc(2025, 3, 5, 17, 0))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mocks := setupTestStatsService()
			seedStatsFixture(mocks)
			tc.inject(mocks)

			got := svc.Aggregate(context.Background(), statsUser, statsRef)
			assertZeroed(t, got)
		})
	}
}

func TestStatsService_Aggregate_IdentityFailureIsNotFatal(t *testing.T) {
	svc, mocks := setupTestStatsService()
	seedStatsFixture(mocks)
	for _, st := range mocks.stores {
		st.err = errors.New("identity store down")
	}

	got := svc.Aggregate(context.Background(), statsUser, statsRef)
	if got.TotalProjects != 3 {
		t.Errorf("身份解析失败不应影响统计，totalProjects=%d", got.TotalProjects)
	}
	if got.PunctualityScore != 0 {
		t.Errorf("无法解析身份时守时分应为 0，实际=%v", got.PunctualityScore)
	}
}

func TestStatsService_Aggregate_NonStudentPunctualityZero(t *testing.T) {
	svc, mocks := setupTestStatsService()
	seedStatsFixture(mocks)
	mocks.stores[model.RoleAdmin].add(&model.Worker{UserID: statsUser})

	got := svc.Aggregate(context.Background(), statsUser, statsRef)
	if got.PunctualityScore != 0 {
		t.Errorf("admin 优先命中时守时分应为 0，实际=%v", got.PunctualityScore)
	}
}

func TestStatsService_Aggregate_Deterministic(t *testing.T) {
	svc, mocks := setupTestStatsService()
	seedStatsFixture(mocks)

	first := svc.Aggregate(context.Background(), statsUser, statsRef)
	second := svc.Aggregate(context.Background(), statsUser, statsRef)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("相同输入应得到相同结果:\n%+v\n%+v", first, second)
	}
}
