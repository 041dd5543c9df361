package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"shift-hub/backend/internal/model"
	"shift-hub/backend/internal/repository"
	pkgerrors "shift-hub/backend/pkg/errors"
)

// mockRepos 聚合全部 mock，便于测试直接注入数据与故障
type mockRepos struct {
	repo        *repository.Repository
	accounts    *mockAccountRepo
	stores      map[string]*mockRoleStore
	projects    *mockProjectRepo
	shifts      *mockShiftRepo
	assignments *mockAssignmentRepo
	attendance  *mockAttendanceRepo
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		accounts:    newMockAccountRepo(),
		stores:      make(map[string]*mockRoleStore),
		projects:    newMockProjectRepo(),
		shifts:      newMockShiftRepo(),
		assignments: newMockAssignmentRepo(),
		attendance:  newMockAttendanceRepo(),
	}

	stores := make(repository.RoleStores, 0, len(model.RolePriority))
	for _, role := range model.RolePriority {
		st := &mockRoleStore{role: role}
		m.stores[role] = st
		stores = append(stores, st)
	}

	m.repo = &repository.Repository{
		Account:    m.accounts,
		Workers:    stores,
		Project:    m.projects,
		Shift:      m.shifts,
		Assignment: m.assignments,
		Attendance: m.attendance,
	}
	return m
}

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account // key: account_id
	seq      int
	err      error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	if account.AccountID == "" {
		m.seq++
		account.AccountID = fmt.Sprintf("acc-%d", m.seq)
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock RoleStore ──

type mockRoleStore struct {
	mu        sync.Mutex
	role      string
	workers   []*model.Worker
	err       error // 非 nil 时所有查询返回该错误
	createErr error
	calls     int
}

func (m *mockRoleStore) Role() string { return m.role }

func (m *mockRoleStore) FindByField(_ context.Context, field, value string) (*model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, w := range m.workers {
		if (field == repository.FieldEmail && w.Email == value) ||
			(field == repository.FieldUserID && w.UserID == value) {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleStore) Create(_ context.Context, worker *model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.workers = append(m.workers, worker)
	return nil
}

func (m *mockRoleStore) add(w *model.Worker) {
	w.Role = m.role
	m.workers = append(m.workers, w)
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	mu             sync.Mutex
	projects       []model.Project
	members        []model.ProjectMember
	membershipsErr error
	projectsErr    error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, *project)
	return nil
}

func (m *mockProjectRepo) AddMember(_ context.Context, member *model.ProjectMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, *member)
	return nil
}

func (m *mockProjectRepo) ListMembershipsByUser(_ context.Context, userID string) ([]model.ProjectMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.membershipsErr != nil {
		return nil, m.membershipsErr
	}
	var result []model.ProjectMember
	for _, mb := range m.members {
		if mb.UserID == userID {
			result = append(result, mb)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.projectsErr != nil {
		return nil, m.projectsErr
	}
	want := toSet(ids)
	var result []model.Project
	for _, p := range m.projects {
		if want[p.ProjectID] {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu     sync.Mutex
	shifts []model.Shift
	err    error
	panics bool // ListByProjectIDs 触发 panic
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = append(m.shifts, *shift)
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.shifts {
		if m.shifts[i].ShiftID == id {
			sh := m.shifts[i]
			return &sh, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByProjectIDs(_ context.Context, projectIDs []string) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("mock shift store panic")
	}
	if m.err != nil {
		return nil, m.err
	}
	want := toSet(projectIDs)
	var result []model.Shift
	for _, sh := range m.shifts {
		if want[sh.ProjectID] {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListByIDs(_ context.Context, ids []string) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	want := toSet(ids)
	var result []model.Shift
	for _, sh := range m.shifts {
		if want[sh.ShiftID] {
			result = append(result, sh)
		}
	}
	return result, nil
}

// ── Mock ShiftAssignmentRepository ──

type mockAssignmentRepo struct {
	mu          sync.Mutex
	assignments []model.ShiftAssignment
	err         error
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.ShiftAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, *a)
	return nil
}

func (m *mockAssignmentRepo) GetByShiftAndStudent(_ context.Context, shiftID, studentID string) (*model.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.assignments {
		if m.assignments[i].ShiftID == shiftID && m.assignments[i].StudentID == studentID {
			a := m.assignments[i]
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.ShiftAssignment
	for _, a := range m.assignments {
		if a.StudentID == studentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByStudentInShifts(_ context.Context, studentID string, shiftIDs []string) ([]model.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	want := toSet(shiftIDs)
	var result []model.ShiftAssignment
	for _, a := range m.assignments {
		if a.StudentID == studentID && want[a.ShiftID] {
			result = append(result, a)
		}
	}
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	mu       sync.Mutex
	records  []*model.AttendanceRecord
	seq      int
	err      error
	rangeErr error // 仅本月区间查询失败
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, r := range m.records {
		if r.ShiftID == rec.ShiftID && r.StudentID == rec.StudentID {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	if rec.AttendanceID == "" {
		m.seq++
		rec.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	}
	if rec.Version == 0 {
		rec.Version = 1
	}
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockAttendanceRepo) GetByShiftAndStudent(_ context.Context, shiftID, studentID string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.records {
		if r.ShiftID == shiftID && r.StudentID == studentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, rec *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.AttendanceID != rec.AttendanceID {
			continue
		}
		if r.Version != rec.Version {
			return pkgerrors.ErrOptimisticLock
		}
		rec.Version++
		cp := *rec
		m.records[i] = &cp
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockAttendanceRepo) ListByShift(_ context.Context, shiftID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.ShiftID == shiftID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByStudentStatus(_ context.Context, studentID, status string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID == studentID && r.AttendanceStatus == status {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByStudentStatusClockInBetween(_ context.Context, studentID, status string, from, to time.Time) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StudentID != studentID || r.AttendanceStatus != status || r.ClockInTime == nil {
			continue
		}
		if r.ClockInTime.Before(from) || r.ClockInTime.After(to) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

// ── 辅助函数 ──

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func timePtr(t time.Time) *time.Time { return &t }
