// Package export writes the weekly timetable to spreadsheet and calendar formats.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// ErrGenerate is returned when a file cannot be produced.
var ErrGenerate = errors.New("generating export failed")

const sheetName = "Timetable"

var levelFill = map[schedule.Level]string{
	schedule.LevelBeginner:     "#C6EFCE",
	schedule.LevelIntermediate: "#FFEB9C",
	schedule.LevelAdvanced:     "#F4B6C2",
}

// WriteXLSX renders the projection as a worksheet: one column per day, one
// row per slot, with each class merged over the rows it spans.
func WriteXLSX(w io.Writer, p *timetable.Projection, title string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if err := fillSheet(f, p, title); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: writing workbook: %w", ErrGenerate, err)
	}
	return nil
}

func fillSheet(f *excelize.File, p *timetable.Projection, title string) error {
	days := p.Grid().Days()
	lastCol := colName(len(days))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	levelStyles := make(map[schedule.Level]int, len(levelFill))
	for level, color := range levelFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    borders(),
		})
		if err != nil {
			return err
		}
		levelStyles[level] = id
	}
	plainStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(),
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", lastCol, 22)

	_ = f.SetCellValue(sheetName, "A1", title)
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	_ = f.SetCellValue(sheetName, "A2", "Time")
	for i, d := range days {
		_ = f.SetCellValue(sheetName, cell(colName(i+1), 2), d.String())
	}
	_ = f.SetCellStyle(sheetName, "A2", lastCol+"2", headerStyle)

	const firstRow = 3
	for r, row := range p.Rows() {
		excelRow := firstRow + r
		_ = f.SetRowHeight(sheetName, excelRow, 36)
		_ = f.SetCellValue(sheetName, cell("A", excelRow), row[0].Slot.String())

		for c, cl := range row {
			if cl.State != timetable.Anchor {
				continue
			}
			col := colName(c + 1)
			top := cell(col, excelRow)
			bottom := cell(col, excelRow+cl.VisibleSpan-1)

			_ = f.SetCellValue(sheetName, top, cellText(cl.Entry))
			if cl.VisibleSpan > 1 {
				if err := f.MergeCell(sheetName, top, bottom); err != nil {
					return err
				}
			}
			style, ok := levelStyles[cl.Entry.Course.Level]
			if !ok {
				style = plainStyle
			}
			_ = f.SetCellStyle(sheetName, top, bottom, style)
		}
	}
	return nil
}

func cellText(e schedule.Entry) string {
	text := fmt.Sprintf("%s\n%s\n%s", e.Course.Name, e.Teacher.Name, e.Room.Name)
	if e.StudentCount > 0 {
		text += fmt.Sprintf("\n%d students", e.StudentCount)
	}
	return text
}

func borders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#BFBFBF", Style: 1},
		{Type: "right", Color: "#BFBFBF", Style: 1},
		{Type: "top", Color: "#BFBFBF", Style: 1},
		{Type: "bottom", Color: "#BFBFBF", Style: 1},
	}
}

// colName returns the spreadsheet column for a zero-based index.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
