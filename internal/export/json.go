package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/seqgeo/argplace/internal/model"
)

type jsonDocument struct {
	Run         *model.Run               `json:"run,omitempty"`
	Coordinates []model.SampleCoordinate `json:"coordinates"`
}

// WriteJSON writes the coordinate set, with optional run metadata, as
// indented JSON.
func WriteJSON(w io.Writer, run *model.Run, coords []model.SampleCoordinate) error {
	if coords == nil {
		coords = []model.SampleCoordinate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(jsonDocument{Run: run, Coordinates: coords}), "export: encode json")
}

// SaveJSON writes the JSON document to a file.
func SaveJSON(path string, run *model.Run, coords []model.SampleCoordinate) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	if err := WriteJSON(f, run, coords); err != nil {
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
