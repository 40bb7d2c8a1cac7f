package sheets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrTemplateNotFound means no usable template workbook exists in the
	// configured search paths. Fatal to a generation run.
	ErrTemplateNotFound = errors.New("feed template not found")
)

// reference/instructional sheets that never receive product rows and are not
// copied into the output workbook.
var serviceSheetMarkers = []string{
	"инструкция", "справочник", "пример", "instruction", "reference", "example", "readme",
}

// headerScanDepth limits how many leading rows are inspected when scoring a
// candidate template or locating a header row.
const headerScanDepth = 50

// TemplateCandidate is one scored template file.
type TemplateCandidate struct {
	Path    string
	Score   float64
	ModTime int64
	Size    int64
}

// DiscoverTemplate scans the search directories for .xlsx files and picks the
// best one by header-keyword presence, recency and size.
func DiscoverTemplate(searchDirs []string, headerKeywords []string) (string, error) {
	var best *TemplateCandidate
	for _, dir := range searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xlsx") {
				continue
			}
			if strings.HasPrefix(e.Name(), "~$") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			cand, err := scoreTemplate(path, headerKeywords)
			if err != nil {
				continue
			}
			if best == nil || better(cand, best) {
				best = cand
			}
		}
	}
	if best == nil || best.Score == 0 {
		return "", ErrTemplateNotFound
	}
	return best.Path, nil
}

func better(a, b *TemplateCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.ModTime != b.ModTime {
		return a.ModTime > b.ModTime
	}
	return a.Size > b.Size
}

func scoreTemplate(path string, headerKeywords []string) (*TemplateCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	score := 0.0
	for _, sheet := range f.GetSheetList() {
		_, hits := bestHeaderRow(f, sheet, headerKeywords)
		if float64(hits) > score {
			score = float64(hits)
		}
	}
	return &TemplateCandidate{
		Path:    path,
		Score:   score,
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
	}, nil
}

// BuildWorkbook opens the chosen template and drops reference/instructional
// sheets, leaving every remaining sheet untouched.
func BuildWorkbook(templatePath string) (*excelize.File, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", templatePath, err)
	}
	for _, sheet := range f.GetSheetList() {
		if isServiceSheet(sheet) && len(f.GetSheetList()) > 1 {
			if err := f.DeleteSheet(sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("drop sheet %s: %w", sheet, err)
			}
		}
	}
	return f, nil
}

// ImportSheet copies the named sheet (values only) from a secondary template
// into the workbook. Used for the supplemental notebook sheet when the
// primary template lacks it.
func ImportSheet(dst *excelize.File, srcPath, sheetName string) error {
	src, err := excelize.OpenFile(srcPath)
	if err != nil {
		return fmt.Errorf("open secondary template %s: %w", srcPath, err)
	}
	defer src.Close()

	srcIdx, err := src.GetSheetIndex(sheetName)
	if err != nil || srcIdx < 0 {
		return fmt.Errorf("secondary template has no sheet %q", sheetName)
	}
	if idx, _ := dst.GetSheetIndex(sheetName); idx >= 0 {
		return nil // already present
	}
	if _, err := dst.NewSheet(sheetName); err != nil {
		return err
	}
	rows, err := src.GetRows(sheetName)
	if err != nil {
		return err
	}
	for r, row := range rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := dst.SetCellValue(sheetName, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveAtomic writes the workbook to path via a temp file and rename, so a
// failed write never leaves a truncated feed behind.
func SaveAtomic(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("write feed workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize feed workbook: %w", err)
	}
	return nil
}

func isServiceSheet(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range serviceSheetMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
