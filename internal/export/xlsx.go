package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/seqgeo/argplace/internal/model"
)

// SaveXLSX writes a workbook with a coordinate sheet and, when run is
// non-nil, a metadata sheet describing the producing run.
func SaveXLSX(path string, run *model.Run, coords []model.SampleCoordinate) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("coordinates")
	if err != nil {
		return eris.Wrap(err, "export: add coordinates sheet")
	}

	header := sheet.AddRow()
	for _, col := range columnHeader {
		header.AddCell().SetString(col)
	}
	for _, c := range coords {
		row := sheet.AddRow()
		row.AddCell().SetString(string(c.Sample))
		row.AddCell().SetFloat(c.Coordinate.X)
		row.AddCell().SetFloat(c.Coordinate.Y)
		row.AddCell().SetFloat(c.Coordinate.Z)
	}

	if run != nil {
		if err := addRunSheet(f, run); err != nil {
			return err
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addRunSheet(f *xlsx.File, run *model.Run) error {
	sheet, err := f.AddSheet("run")
	if err != nil {
		return eris.Wrap(err, "export: add run sheet")
	}

	seed := ""
	if run.Seed != nil {
		seed = strconv.FormatInt(*run.Seed, 10)
	}
	for _, kv := range [][2]string{
		{"id", run.ID},
		{"source", run.Source},
		{"crs", run.CRS},
		{"seed", seed},
		{"sample_count", strconv.Itoa(run.SampleCount)},
		{"status", string(run.Status)},
		{"created_at", run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}
	return nil
}
