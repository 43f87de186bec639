// Package export writes synthesized coordinate sets to interchange formats.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/seqgeo/argplace/internal/model"
)

var columnHeader = []string{"sample", "x", "y", "z"}

// WriteCSV writes one header row followed by one row per coordinate, in
// sample order.
func WriteCSV(w io.Writer, coords []model.SampleCoordinate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columnHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, c := range coords {
		if err := cw.Write(coordinateRow(c)); err != nil {
			return eris.Wrapf(err, "export: write csv row for %s", c.Sample)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// SaveCSV writes the coordinate set to a file.
func SaveCSV(path string, coords []model.SampleCoordinate) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	if err := WriteCSV(f, coords); err != nil {
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

func coordinateRow(c model.SampleCoordinate) []string {
	return []string{
		string(c.Sample),
		strconv.FormatFloat(c.Coordinate.X, 'g', -1, 64),
		strconv.FormatFloat(c.Coordinate.Y, 'g', -1, 64),
		strconv.FormatFloat(c.Coordinate.Z, 'g', -1, 64),
	}
}
