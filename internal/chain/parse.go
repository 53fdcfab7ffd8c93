package chain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseIndex reads the whole index file. Lines hold exactly five numeric
// fields (n size act bct cct), sorted ascending by n with no duplicates.
// name is used only for error reporting.
func ParseIndex(name string, r io.Reader) ([]IndexRecord, error) {
	var records []IndexRecord

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, formatErrf(name, lineNo, "expected 5 fields, got %d", len(fields))
		}

		nums := make([]int, 5)
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, formatErrf(name, lineNo, "field %d is not an integer: %q", i+1, f)
			}
			nums[i] = v
		}

		rec := IndexRecord{
			N:              nums[0],
			Size:           nums[1],
			NonBrauerCount: nums[2],
			BrauerCount:    nums[3],
			TotalCount:     nums[4],
		}

		if rec.N < 1 || rec.N > MaxTarget {
			return nil, formatErrf(name, lineNo, "n=%d outside 1..%d", rec.N, MaxTarget)
		}
		if rec.Size < 1 {
			return nil, formatErrf(name, lineNo, "size must be positive, got %d", rec.Size)
		}
		if rec.NonBrauerCount < 0 || rec.BrauerCount < 0 {
			return nil, formatErrf(name, lineNo, "negative chain count")
		}
		if rec.TotalCount != rec.NonBrauerCount+rec.BrauerCount {
			return nil, formatErrf(name, lineNo, "total count %d != %d non-brauer + %d brauer",
				rec.TotalCount, rec.NonBrauerCount, rec.BrauerCount)
		}
		if len(records) > 0 && rec.N <= records[len(records)-1].N {
			return nil, formatErrf(name, lineNo, "n=%d out of order after n=%d", rec.N, records[len(records)-1].N)
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	return records, nil
}

// ParseChains reads a per-target chain file against its index record.
// Every line must hold idx.Size integers followed by a one-letter kind tag,
// the lines must be sorted lexicographically, and the per-kind line counts
// must match the index counts exactly.
func ParseChains(name string, r io.Reader, idx IndexRecord) ([]ChainRecord, error) {
	chains := make([]ChainRecord, 0, idx.TotalCount)
	var nonBrauer, brauer int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, err := parseChainLine(name, lineNo, line, idx)
		if err != nil {
			return nil, err
		}

		if len(chains) > 0 && compareElements(chains[len(chains)-1].Elements, rec.Elements) >= 0 {
			return nil, formatErrf(name, lineNo, "chains out of lexicographic order")
		}

		switch rec.Kind {
		case Brauer:
			brauer++
		default:
			nonBrauer++
		}
		chains = append(chains, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	if len(chains) != idx.TotalCount {
		return nil, formatErrf(name, lineNo, "found %d chains, index lists %d", len(chains), idx.TotalCount)
	}
	if nonBrauer != idx.NonBrauerCount || brauer != idx.BrauerCount {
		return nil, formatErrf(name, lineNo, "kind split %d/%d disagrees with index %d/%d",
			nonBrauer, brauer, idx.NonBrauerCount, idx.BrauerCount)
	}

	return chains, nil
}

func parseChainLine(name string, lineNo int, line string, idx IndexRecord) (ChainRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != idx.Size+1 {
		return ChainRecord{}, formatErrf(name, lineNo, "expected %d elements and a kind tag, got %d fields",
			idx.Size, len(fields))
	}

	elements := make([]int, idx.Size)
	for i, f := range fields[:idx.Size] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return ChainRecord{}, formatErrf(name, lineNo, "element %d is not an integer: %q", i+1, f)
		}
		if v < 1 {
			return ChainRecord{}, formatErrf(name, lineNo, "element %d must be positive, got %d", i+1, v)
		}
		if i > 0 && v <= elements[i-1] {
			return ChainRecord{}, formatErrf(name, lineNo, "elements not strictly increasing at position %d", i+1)
		}
		elements[i] = v
	}

	if elements[0] != 1 {
		return ChainRecord{}, formatErrf(name, lineNo, "chain must start at 1, got %d", elements[0])
	}
	if last := elements[len(elements)-1]; last != idx.N {
		return ChainRecord{}, formatErrf(name, lineNo, "chain ends at %d, want %d", last, idx.N)
	}

	kind, err := ParseKind(fields[idx.Size])
	if err != nil {
		return ChainRecord{}, formatErrf(name, lineNo, "%v", err)
	}

	return ChainRecord{N: idx.N, Elements: elements, Kind: kind}, nil
}
