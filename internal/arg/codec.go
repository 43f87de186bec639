package arg

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// Decode reads a tree sequence from its JSON interchange form and validates
// it. The format mirrors the tskit table layout (nodes with times and sample
// flags, edges with genomic intervals) but is deliberately simple; binary
// tskit files are out of scope.
func Decode(r io.Reader) (*TreeSequence, error) {
	var ts TreeSequence
	if err := json.NewDecoder(r).Decode(&ts); err != nil {
		return nil, eris.Wrap(err, "arg: decode tree sequence")
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Encode writes the tree sequence as indented JSON.
func Encode(w io.Writer, ts *TreeSequence) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ts); err != nil {
		return eris.Wrap(err, "arg: encode tree sequence")
	}
	return nil
}

// LoadFile reads and validates a tree sequence from a JSON file.
func LoadFile(path string) (*TreeSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "arg: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return Decode(f)
}

// SaveFile writes a tree sequence to a JSON file.
func SaveFile(path string, ts *TreeSequence) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "arg: create %s", path)
	}
	defer f.Close() //nolint:errcheck
	return Encode(f, ts)
}
