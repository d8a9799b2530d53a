// Package report renders booking data for offline use by venue staff.
package report

import (
	"fmt"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingsHeader = []string{
	"Booking ID",
	"Item",
	"Quantity",
	"Total",
	"Status",
	"Ticket Code",
	"Created At",
	"Confirmed At",
	"Cancelled At",
	"Cancel Reason",
}

var bookingsColumnWidths = []float64{38, 24, 10, 12, 12, 14, 22, 22, 22, 32}

// BookingsWorkbook builds an .xlsx workbook with one row per booking. items
// maps seat and zone IDs to the labels shown in the Item column; unknown IDs
// are written as is.
func BookingsWorkbook(event domain.Event, bookings []domain.Booking, items map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   event.Name + " bookings",
		Subject: event.ID,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	for col, header := range bookingsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(bookingsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(bookingsSheet, colName, colName, bookingsColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("set width %s: %w", colName, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingsHeader), 1)
	if err := f.SetCellStyle(bookingsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, b := range bookings {
		row := i + 2
		item := b.SeatID
		if item == "" {
			item = b.ZoneID
		}
		if label, ok := items[item]; ok {
			item = label
		}

		values := []any{
			b.ID,
			item,
			b.Quantity,
			b.TotalPrice.InexactFloat64(),
			string(b.Status),
			b.TicketCode,
			b.CreatedAt.UTC().Format(time.RFC3339),
			formatTime(b.ConfirmedAt),
			formatTime(b.CancelledAt),
			b.CancelReason,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		total, _ := excelize.CoordinatesToCellName(4, row)
		if err := f.SetCellStyle(bookingsSheet, total, total, moneyStyle); err != nil {
			return nil, fmt.Errorf("style total %s: %w", total, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
