// Package report формирует XLSX-отчёты по журналу начислений и заказам.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmeshcher/coins-admin/internal/service"
)

// Названия листов отчёта.
const (
	HistorySheet = "История"
	OrdersSheet  = "Заказы"
)

var (
	historyHeader = []any{"Дата", "Преподаватель", "Группа", "Ученик", "Монеты", "Причина"}
	ordersHeader  = []any{"Номер", "Подарок", "Покупатель", "Дата", "Статус"}
)

// History строит книгу с журналом начислений и итоговой строкой.
func History(records []service.HistoryRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), HistorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(records)+1)
	for _, r := range records {
		rows = append(rows, []any{r.DateText(), r.Teacher, r.Group, r.Student, r.Coins, r.Reason})
	}
	rows = append(rows, []any{"Итого", nil, nil, nil, service.TotalCoins(records), nil})

	if err := fill(f, HistorySheet, historyHeader, rows, []float64{12, 24, 14, 24, 10, 40}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Orders строит книгу со списком заказов.
func Orders(orders []service.OrderRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{o.ID, o.GiftName, o.Customer, o.DateText(), o.StatusText()})
	}

	if err := fill(f, OrdersSheet, ordersHeader, rows, []float64{10, 28, 28, 12, 14}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, sheet string, header []any, rows [][]any, widths []float64) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set width: %w", err)
		}
	}
	return nil
}

// Write записывает книгу в w и закрывает её.
func Write(f *excelize.File, w io.Writer) error {
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save сохраняет книгу в файл и закрывает её.
func Save(f *excelize.File, path string) error {
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
