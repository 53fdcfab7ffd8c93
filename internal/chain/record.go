// Package chain reads the flat-file database of shortest addition chains
// for targets 1..1024: a whitespace-separated index file with per-target
// summary counts, and one ac<nnnn>.txt file per target listing every
// shortest chain in lexicographic order.
package chain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxTarget is the largest target the database covers.
const MaxTarget = 1024

// IndexFileName is the name of the summary file inside a dataset directory.
const IndexFileName = "index.txt"

// Kind is the single-letter derivability tag stored with each chain.
type Kind string

const (
	// NonBrauer marks a shortest chain that is not a star chain.
	NonBrauer Kind = "a"
	// Brauer marks a star chain: every step adds the previous element.
	Brauer Kind = "b"
)

// Name returns the long form used in logs and query output.
func (k Kind) Name() string {
	if k == Brauer {
		return "brauer"
	}
	return "non_brauer"
}

// ParseKind validates a kind tag read from a chain file.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "a":
		return NonBrauer, nil
	case "b":
		return Brauer, nil
	}
	return "", fmt.Errorf("unknown kind tag %q", tag)
}

// IndexRecord is one line of the index file: per-target chain length and
// how many shortest chains of each kind exist.
type IndexRecord struct {
	N              int `json:"n"`
	Size           int `json:"size"`
	NonBrauerCount int `json:"non_brauer_count"`
	BrauerCount    int `json:"brauer_count"`
	TotalCount     int `json:"total_count"`
}

// String renders the record exactly as it appears in the index file.
func (r IndexRecord) String() string {
	return fmt.Sprintf("%d %d %d %d %d", r.N, r.Size, r.NonBrauerCount, r.BrauerCount, r.TotalCount)
}

// ChainRecord is one line of a per-target chain file.
type ChainRecord struct {
	N        int   `json:"n"`
	Elements []int `json:"elements"`
	Kind     Kind  `json:"kind"`
}

// String renders the chain exactly as it appears in its file,
// e.g. "1 2 3 6 12 13 b".
func (c ChainRecord) String() string {
	var b strings.Builder
	for i, e := range c.Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(e))
	}
	b.WriteByte(' ')
	b.WriteString(string(c.Kind))
	return b.String()
}

// ChainFileName returns the per-target file name, e.g. ac0137.txt for 137.
func ChainFileName(n int) string {
	return fmt.Sprintf("ac%04d.txt", n)
}

// compareElements orders two chains lexicographically element by element.
func compareElements(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
