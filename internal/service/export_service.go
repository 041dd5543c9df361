package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 数据来自 StatsService.Aggregate，统计失败时导出全零报表而非报错
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportStats 导出工作人员项目工时统计为 Excel
	ExportStats(ctx context.Context, userID string, ref time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	stats  StatsService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(stats StatsService, logger *zap.Logger) ExportService {
	return &exportService{stats: stats, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportStats: 导出工时统计为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "工时统计"
//   - 标题行 + 表头：项目 | 项目状态 | 成员状态 | 有效工时 | 损失工时 | 完成班次
//   - 数据行之后为汇总区块
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportStats(ctx context.Context, userID string, ref time.Time) (*bytes.Buffer, string, error) {
	stats := s.stats.Aggregate(ctx, userID, ref)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工时统计"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "F", 14)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	hoursStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("工时统计 %s", ref.Format("2006-01")))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	headers := []string{"项目", "项目状态", "成员状态", "有效工时", "损失工时", "完成班次"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell("F", row), headerStyle)

	// 数据行
	row = 3
	for _, p := range stats.ProjectHours {
		f.SetCellValue(sheetName, cell("A", row), p.ProjectName)
		f.SetCellValue(sheetName, cell("B", row), p.ProjectStatus)
		f.SetCellValue(sheetName, cell("C", row), p.MembershipStatus)
		f.SetCellValue(sheetName, cell("D", row), p.TrackedHours)
		f.SetCellValue(sheetName, cell("E", row), p.LostHours)
		f.SetCellValue(sheetName, cell("F", row), p.ShiftsCompleted)
		f.SetCellStyle(sheetName, cell("D", row), cell("E", row), hoursStyle)
		row++
	}
	if len(stats.ProjectHours) == 0 {
		f.SetCellValue(sheetName, cell("A", row), "暂无工时记录")
		row++
	}

	// 汇总区块
	row++
	summary := []struct {
		label string
		value interface{}
	}{
		{"项目总数", stats.TotalProjects},
		{"进行中项目", stats.ActiveProjects},
		{"本期有效工时", stats.TotalMonthlyHours},
		{"本期损失工时", stats.TotalLostHours},
		{"本月完成班次", stats.CompletedShiftsCount},
		{"待上班次", stats.UpcomingShiftsCount},
		{"守时分", stats.PunctualityScore},
	}
	for _, item := range summary {
		f.SetCellValue(sheetName, cell("A", row), item.label)
		f.SetCellValue(sheetName, cell("B", row), item.value)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工时统计_%s.xlsx", ref.Format("2006-01"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
