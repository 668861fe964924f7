// Package deliver serializes normalized tables into the weekly archive and
// renders the notification bodies for both run outcomes.
package deliver

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/aggregate"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// Packager writes deliverable workbooks and the weekly archive into dir.
// Everything it creates is transient: intermediate workbooks are removed as
// they are archived, and the returned cleanup removes the archive itself.
type Packager struct {
	dir string
}

// NewPackager creates a Packager writing into dir ("" means the OS temp dir).
func NewPackager(dir string) *Packager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Packager{dir: dir}
}

// Package serializes each table to a labeled workbook, compresses them into
// one archive named from the reporting week, and returns the archive path.
// The cleanup func is safe to call on every exit path; failures to remove
// files are logged and never mask the primary outcome.
func (p *Packager) Package(tables []aggregate.Table, week report.Week) (archivePath string, cleanup func(), err error) {
	archivePath = filepath.Join(p.dir, fmt.Sprintf("Weekly Marketing Data %s.zip", week.RangeLabel()))
	cleanup = func() { removeQuietly(archivePath) }

	var written []string
	defer func() {
		// Intermediate workbooks never outlive the call, whether archival
		// succeeded or not.
		for _, path := range written {
			removeQuietly(path)
		}
		if err != nil {
			cleanup()
		}
	}()

	archive, err := os.Create(archivePath)
	if err != nil {
		return "", cleanup, fmt.Errorf("create archive: %w", err)
	}
	defer archive.Close()

	zw := zip.NewWriter(archive)
	for _, tbl := range tables {
		name := fmt.Sprintf("%s %s.xlsx", tbl.Identity.Key(), week.RangeLabel())
		path := filepath.Join(p.dir, name)

		if err = WriteWorkbook(tbl.Rows, path); err != nil {
			return "", cleanup, fmt.Errorf("write workbook %s: %w", name, err)
		}
		written = append(written, path)

		if err = addToArchive(zw, path, name); err != nil {
			return "", cleanup, fmt.Errorf("archive %s: %w", name, err)
		}
	}

	if err = zw.Close(); err != nil {
		return "", cleanup, fmt.Errorf("finalize archive: %w", err)
	}

	log.Printf("[deliver] packaged %d workbooks into %s", len(tables), archivePath)
	return archivePath, cleanup, nil
}

// WriteWorkbook serializes canonical rows into a single-sheet xlsx file with
// the canonical column order. Null cells stay empty.
func WriteWorkbook(rows []report.Row, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowCells(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// rowCells lays a canonical row out in report.Columns order.
func rowCells(row report.Row) []interface{} {
	str := func(p *string) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	num := func(p *float64) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	return []interface{}{
		str(row.Date),
		str(row.CampaignType),
		row.CampaignName,
		str(row.BiddingStrategy),
		num(row.Impressions),
		num(row.Clicks),
		num(row.Spend),
		num(row.Orders),
		num(row.Sales),
		row.CampaignForm,
		row.Market,
		row.Brand,
		row.CostType,
		row.SKU,
	}
}

func addToArchive(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[deliver] cleanup %s: %v", path, err)
	}
}
