package exporter

import (
	"fmt"
	"strings"
)

// Copy records one exported artifact.
type Copy struct {
	Kind        Kind
	Source      string
	Destination string
	Bytes       int64

	// Fallback is true when Source was found by the prefix scan.
	Fallback bool
}

// Ambiguity records a fallback scan that matched more than one file.
type Ambiguity struct {
	Kind       Kind
	Candidates []string

	// Chosen is empty when the pick policy refused to choose.
	Chosen string
}

// Result is the outcome of one export run.
type Result struct {
	EnvName string
	DestDir string
	DryRun  bool

	Copied    []Copy
	Missing   []Kind
	Ambiguous []Ambiguity
}

// OK reports whether every artifact was exported.
func (r *Result) OK() bool {
	return len(r.Missing) == 0
}

// Err returns a *MissingError when any artifact could not be located.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &MissingError{EnvName: r.EnvName, Kinds: append([]Kind(nil), r.Missing...)}
}

// MissingError lists the artifacts an export could not locate.
type MissingError struct {
	EnvName string
	Kinds   []Kind
}

func (e *MissingError) Error() string {
	names := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		names[i] = string(k)
	}
	return fmt.Sprintf("%s: missing artifacts: %s", e.EnvName, strings.Join(names, ", "))
}
