// Package seed imports users and stores from an XLSX workbook.
//
// The workbook carries two sheets. "Users" has the columns name, email,
// password, address, role. "Stores" has name, email, address, ownerEmail.
// The first row of each sheet is a header and is skipped. Users are
// imported before stores so a store can reference an owner created in the
// same file.
package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/storerating-backend/internal/app/service"
	apperrors "github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	UsersSheet  = "Users"
	StoresSheet = "Stores"
)

// RowError 행 단위 실패
type RowError struct {
	Sheet string
	Row   int // 1-based, as shown in a spreadsheet
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

// Report summarises one import run.
type Report struct {
	UsersCreated  int
	StoresCreated int
	Skipped       int // rows that already exist
	Failures      []RowError
}

type Workbook struct {
	Users  []service.CreateUserInput
	Stores []service.CreateStoreInput
	// spreadsheet row number for each entry above
	userRows  []int
	storeRows []int
}

// ReadFile opens an XLSX file from disk.
func ReadFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

// Read parses an XLSX workbook from r.
func Read(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}
	found := false

	if idx, _ := f.GetSheetIndex(UsersSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(UsersSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s sheet: %w", UsersSheet, err)
		}
		for i, row := range rows {
			if i == 0 || isBlank(row) {
				continue
			}
			wb.Users = append(wb.Users, service.CreateUserInput{
				Name:     cell(row, 0),
				Email:    cell(row, 1),
				Password: cell(row, 2),
				Address:  cell(row, 3),
				Role:     cell(row, 4),
			})
			wb.userRows = append(wb.userRows, i+1)
		}
	}

	if idx, _ := f.GetSheetIndex(StoresSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(StoresSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s sheet: %w", StoresSheet, err)
		}
		for i, row := range rows {
			if i == 0 || isBlank(row) {
				continue
			}
			wb.Stores = append(wb.Stores, service.CreateStoreInput{
				Name:       cell(row, 0),
				Email:      cell(row, 1),
				Address:    cell(row, 2),
				OwnerEmail: cell(row, 3),
			})
			wb.storeRows = append(wb.storeRows, i+1)
		}
	}

	if !found {
		return nil, fmt.Errorf("workbook has neither a %q nor a %q sheet", UsersSheet, StoresSheet)
	}
	return wb, nil
}

// Import provisions every row through the admin service. Rows that
// conflict with existing data are counted as skipped. Other domain
// failures are collected per row. An internal error aborts the run.
func Import(admin service.AdminService, wb *Workbook) (*Report, error) {
	report := &Report{}

	for i, input := range wb.Users {
		_, err := admin.CreateUser(input)
		if done, abort := report.record(UsersSheet, wb.userRows[i], err); abort != nil {
			return report, abort
		} else if done {
			report.UsersCreated++
		}
	}

	for i, input := range wb.Stores {
		_, err := admin.CreateStore(input)
		if done, abort := report.record(StoresSheet, wb.storeRows[i], err); abort != nil {
			return report, abort
		} else if done {
			report.StoresCreated++
		}
	}

	logger.Info("Seed import finished", map[string]interface{}{
		"users_created":  report.UsersCreated,
		"stores_created": report.StoresCreated,
		"skipped":        report.Skipped,
		"failures":       len(report.Failures),
	})
	return report, nil
}

func (r *Report) record(sheet string, row int, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrConflict):
		r.Skipped++
		return false, nil
	case apperrors.IsInternal(err):
		return false, fmt.Errorf("%s row %d: %w", sheet, row, err)
	default:
		logger.Warn("Seed row rejected", map[string]interface{}{
			"sheet": sheet,
			"row":   row,
			"error": err.Error(),
		})
		r.Failures = append(r.Failures, RowError{Sheet: sheet, Row: row, Err: err})
		return false, nil
	}
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
