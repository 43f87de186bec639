package synth

import "github.com/rotisserie/eris"

// ErrInvalidInput marks malformed caller input: a negative or non-finite
// distance from a trusted source, or mismatched sample/matrix sizes. All
// other failure modes inside the engine degrade instead of erroring.
var ErrInvalidInput = eris.New("synth: invalid input")
