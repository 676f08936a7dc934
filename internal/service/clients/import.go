package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// headerAliases maps normalized spreadsheet headers to client fields.
var headerAliases = map[string]string{
	"name":             "name",
	"full_name":        "name",
	"client_name":      "name",
	"phone":            "phone",
	"mobile":           "phone",
	"phone_number":     "phone",
	"email":            "email",
	"gender":           "gender",
	"birth_date":       "birth_date",
	"birthday":         "birth_date",
	"dob":              "birth_date",
	"anniversary_date": "anniversary_date",
	"anniversary":      "anniversary_date",
	"notes":            "notes",
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// ImportExcel reads clients from the first sheet of an XLSX workbook. The
// first row holds the headers. Rows without a name are skipped, as are rows
// whose phone is already on file or repeated earlier in the sheet.
func (s *Service) ImportExcel(ctx context.Context, r io.Reader) (models.ImportResult, error) {
	result := models.ImportResult{Errors: []string{}}

	file, err := excelize.OpenReader(r)
	if err != nil {
		return result, fmt.Errorf("%w: not a readable xlsx file: %v", ErrValidation, err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return result, fmt.Errorf("%w: no worksheet found", ErrValidation)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return result, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return result, fmt.Errorf("%w: worksheet is empty", ErrValidation)
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["name"]; !ok {
		return result, fmt.Errorf("%w: missing name column", ErrValidation)
	}
	if _, ok := columns["phone"]; !ok {
		return result, fmt.Errorf("%w: missing phone column", ErrValidation)
	}

	get := func(row []string, field string) string {
		idx, ok := columns[field]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	seen := make(map[string]struct{})
	for i, row := range rows[1:] {
		line := i + 2
		name := get(row, "name")
		if name == "" {
			result.Skipped++
			continue
		}
		phone := get(row, "phone")
		if phone == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: phone is missing for %s", line, name))
			continue
		}
		if _, dup := seen[phone]; dup {
			result.Skipped++
			continue
		}
		seen[phone] = struct{}{}

		c := models.Client{
			ID:              uuid.NewString(),
			FullName:        name,
			Phone:           phone,
			Email:           get(row, "email"),
			Gender:          get(row, "gender"),
			BirthDate:       normalizeDate(get(row, "birth_date")),
			AnniversaryDate: normalizeDate(get(row, "anniversary_date")),
			Notes:           get(row, "notes"),
			CreatedAt:       s.now(),
		}

		err := s.insertUnique(ctx, c)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, ErrDuplicatePhone):
			result.Skipped++
		default:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
		}
	}

	s.logger.Info("client import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func normalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), "_")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeDate returns value as yyyy-mm-dd when it can be read as a date,
// including Excel serial numbers, and unchanged otherwise.
func normalizeDate(value string) string {
	if value == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 1 && serial < 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(models.HolidayLayout)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.HolidayLayout)
		}
	}
	return value
}
