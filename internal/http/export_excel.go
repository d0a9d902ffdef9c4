package httpapi

import (
	"bytes"
	"fmt"
	"strings"

	"elvanto-export/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ExportHeader is the fixed column order of the spreadsheet export.
var ExportHeader = []string{
	"First Name",
	"Preferred Name",
	"Last Name",
	"Email",
	"Groups",
	"Service Positions",
}

const (
	exportSheetName = "Elvanto Export"
	// maxColumnWidth caps auto-sized columns at 50 character widths.
	maxColumnWidth = 50.0
)

// GenerateExportWorkbook renders the filtered people into an xlsx workbook:
// bold centered header row, one row per person, group and position lists
// rendered as "; "-joined strings, columns sized to content.
func GenerateExportWorkbook(people []domain.ExportRecord) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file to be open.

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(ExportHeader))
	for col, header := range ExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		widths[col] = len(header)
	}

	for rowIdx, person := range people {
		values := []string{
			person.Firstname,
			person.PreferredName,
			person.Lastname,
			person.Email,
			formatGroups(person.Groups),
			formatServicePositions(person.ServicePositions),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		adjusted := float64(width + 2)
		if adjusted > maxColumnWidth {
			adjusted = maxColumnWidth
		}
		if err := f.SetColWidth(exportSheetName, name, name, adjusted); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// formatGroups renders group entries as "Name (Role)" joined by "; ".
func formatGroups(groups []domain.GroupMembership) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = "Unknown"
		}
		role := g.Role
		if role == "" {
			role = "Member"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", name, role))
	}
	return strings.Join(parts, "; ")
}

// formatServicePositions renders position names joined by "; ".
func formatServicePositions(positions []domain.ServicePosition) string {
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "; ")
}
