package tracker

import (
	"context"
	"fmt"
	"io"

	"github.com/MarcoPoloResearchLab/jigong/internal/worklog"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Workbook sheet names.
const (
	SheetAttendance  = "考勤"
	SheetWageHistory = "工资"
	SheetProjects    = "项目"
	SheetContacts    = "通讯录"
	SheetHolidays    = "节假日"
)

type sheetData struct {
	name    string
	headers []string
	rows    [][]any
}

// ExportWorkbook writes an xlsx workbook with one sheet per collection to w.
func (s *Service) ExportWorkbook(ctx context.Context, w io.Writer) error {
	sheets, err := s.workbookSheets(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.loggerOrDefault().Warn("workbook close failed", zap.Error(err))
		}
	}()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	for index, sheet := range sheets {
		if index == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.name); err != nil {
				return s.workbookFailure(err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return s.workbookFailure(err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return s.workbookFailure(err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return s.workbookFailure(err)
	}
	return nil
}

func (s *Service) workbookFailure(err error) error {
	s.logError(opExportWorkbook, "write_failed", err)
	return newServiceError(opExportWorkbook, "write_failed", err)
}

func (s *Service) workbookSheets(ctx context.Context) ([]sheetData, error) {
	attendance, err := s.attendance.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opExportWorkbook, err)
	}
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opExportWorkbook, err)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}

	attendanceSheet := sheetData{name: SheetAttendance, headers: []string{"日期", "状态", "状态说明"}}
	for _, record := range attendance {
		attendanceSheet.rows = append(attendanceSheet.rows, []any{record.Date, string(record.Status), record.Status.Label()})
	}
	wageSheet := sheetData{name: SheetWageHistory, headers: []string{"月份", "工作天数", "总工资"}}
	for _, record := range history {
		wageSheet.rows = append(wageSheet.rows, []any{record.Month, record.WorkDays, worklog.FormatCurrency(record.TotalWage)})
	}
	projectSheet := sheetData{name: SheetProjects, headers: []string{"项目名称", "地址", "描述"}}
	for _, project := range projects {
		projectSheet.rows = append(projectSheet.rows, []any{project.Name, project.Address, project.Description})
	}
	contactSheet := sheetData{name: SheetContacts, headers: []string{"姓名", "电话", "公司", "备注"}}
	for _, contact := range contacts {
		contactSheet.rows = append(contactSheet.rows, []any{contact.Name, contact.Phone, contact.Company, contact.Note})
	}
	holidaySheet := sheetData{name: SheetHolidays, headers: []string{"节日", "日期"}}
	for _, holiday := range holidays {
		holidaySheet.rows = append(holidaySheet.rows, []any{holiday.Name, holiday.Date})
	}
	return []sheetData{attendanceSheet, wageSheet, projectSheet, contactSheet, holidaySheet}, nil
}

func writeSheet(f *excelize.File, sheet sheetData) error {
	header := make([]any, len(sheet.headers))
	for i, title := range sheet.headers {
		header[i] = title
	}
	rows := append([][]any{header}, sheet.rows...)
	for index, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet.name, index+1, err)
		}
	}
	return nil
}
