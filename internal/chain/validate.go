package chain

// IsAdditionChain reports whether every element after the first is the sum
// of two (not necessarily distinct) earlier elements.
func IsAdditionChain(elements []int) bool {
	for i := 1; i < len(elements); i++ {
		if !hasSum(elements[:i], elements[i]) {
			return false
		}
	}
	return true
}

// IsBrauer reports whether the chain is a star chain: each element after
// the first has a decomposition using the immediately preceding element.
func IsBrauer(elements []int) bool {
	for i := 1; i < len(elements); i++ {
		rest := elements[i] - elements[i-1]
		if !contains(elements[:i], rest) {
			return false
		}
	}
	return true
}

// Verify re-checks the summation property and that the kind tag matches
// the star-chain test. Parsing already guarantees shape (start, end,
// ordering); this is the strict-mode pass.
func (c ChainRecord) Verify() error {
	if !IsAdditionChain(c.Elements) {
		return &InvariantViolation{N: c.N, Chain: c.Elements, Reason: "element is not a sum of two earlier elements"}
	}
	star := IsBrauer(c.Elements)
	if star && c.Kind == NonBrauer {
		return &InvariantViolation{N: c.N, Chain: c.Elements, Reason: "tagged non-brauer but every step uses the preceding element"}
	}
	if !star && c.Kind == Brauer {
		return &InvariantViolation{N: c.N, Chain: c.Elements, Reason: "tagged brauer but a step skips the preceding element"}
	}
	return nil
}

func hasSum(pool []int, target int) bool {
	for i := 0; i < len(pool); i++ {
		for j := i; j < len(pool); j++ {
			if pool[i]+pool[j] == target {
				return true
			}
		}
	}
	return false
}

func contains(pool []int, v int) bool {
	for _, e := range pool {
		if e == v {
			return true
		}
	}
	return false
}
