// Package wire defines the canonical binary form of an expansion result.
//
// The encoding is deterministic: the same result always produces the same
// bytes, so fingerprints can be compared across machines and cached build
// steps can be invalidated by content rather than by timestamp.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/spanweave/spanweave/trace"
	"github.com/spanweave/spanweave/trace/lower"
)

// FormatVersion identifies the record layout. Bump on any field change.
const FormatVersion = 1

// Function is one emitted function in wire form.
type Function struct {
	Name   string `cbor:"1,keyasint"`
	Source string `cbor:"2,keyasint"`
}

// Diagnostic is one lowering diagnostic in wire form.
type Diagnostic struct {
	Code    string `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`
	Fn      string `cbor:"3,keyasint"`
	Line    int    `cbor:"4,keyasint"`
	Column  int    `cbor:"5,keyasint"`
}

// Record is the canonical representation of one expansion.
type Record struct {
	Version     int          `cbor:"1,keyasint"`
	Functions   []Function   `cbor:"2,keyasint"`
	Diagnostics []Diagnostic `cbor:"3,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: canonical encoder init: %v", err))
	}
}

// NewRecord flattens an expansion result into wire form.
func NewRecord(r *trace.Result) Record {
	rec := Record{Version: FormatVersion}
	for _, q := range r.Quotes {
		rec.Functions = append(rec.Functions, Function{
			Name:   q.Fn.Sig.Ident,
			Source: q.String(),
		})
	}
	for _, d := range r.Diagnostics {
		rec.Diagnostics = append(rec.Diagnostics, newDiagnostic(d))
	}
	return rec
}

func newDiagnostic(d lower.Diagnostic) Diagnostic {
	return Diagnostic{
		Code:    string(d.Code),
		Message: d.Message,
		Fn:      d.Fn,
		Line:    d.Span.Line,
		Column:  d.Span.Column,
	}
}

// Encode produces the canonical CBOR bytes for an expansion result.
func Encode(r *trace.Result) ([]byte, error) {
	data, err := encMode.Marshal(NewRecord(r))
	if err != nil {
		return nil, fmt.Errorf("encoding expansion record: %w", err)
	}
	return data, nil
}

// Decode parses canonical bytes back into a record.
func Decode(data []byte) (Record, error) {
	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decoding expansion record: %w", err)
	}
	if rec.Version != FormatVersion {
		return Record{}, fmt.Errorf("unsupported record version %d", rec.Version)
	}
	return rec, nil
}

// Fingerprint hashes the canonical encoding with BLAKE2b-256.
func Fingerprint(r *trace.Result) ([blake2b.Size256]byte, error) {
	data, err := Encode(r)
	if err != nil {
		return [blake2b.Size256]byte{}, err
	}
	return blake2b.Sum256(data), nil
}
