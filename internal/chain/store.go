package chain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/btree"
	"golang.org/x/sync/errgroup"
)

// LoadOptions controls how a dataset directory is loaded.
type LoadOptions struct {
	// Strict re-validates the summation and star-chain properties of
	// every chain after parsing.
	Strict bool
	// AllowMissing tolerates index entries whose per-target file is
	// absent; lookups for those targets return NotFoundError.
	AllowMissing bool
	// Workers bounds the number of chain files parsed concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// Progress, when set, receives occasional human-readable updates.
	Progress func(string)
}

// Store holds a fully loaded dataset. It is immutable after Load and safe
// for concurrent readers without locking.
type Store struct {
	index  map[int]IndexRecord
	chains map[int][]ChainRecord
	tree   *btree.BTree
	stats  Stats
}

// Stats summarizes a loaded dataset.
type Stats struct {
	Targets         int `json:"targets"`
	Chains          int `json:"chains"`
	BrauerChains    int `json:"brauer_chains"`
	NonBrauerChains int `json:"non_brauer_chains"`
	MaxSize         int `json:"max_size"`
	MinN            int `json:"min_n"`
	MaxN            int `json:"max_n"`
}

type indexItem IndexRecord

func (i indexItem) Less(than btree.Item) bool {
	return i.N < than.(indexItem).N
}

// Load reads the index file and every per-target chain file from dir.
// Per-target files are independent, so they parse on a bounded worker pool.
func Load(dir string, opts LoadOptions) (*Store, error) {
	indexPath := filepath.Join(dir, IndexFileName)
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	records, err := ParseIndex(indexPath, f)
	f.Close()
	if err != nil {
		return nil, err
	}

	if opts.Progress != nil {
		opts.Progress(fmt.Sprintf("index loaded: %d targets", len(records)))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Slot per index record so workers never contend on a shared map.
	loaded := make([][]ChainRecord, len(records))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			chains, err := loadChainFile(dir, rec, opts)
			if err != nil {
				return err
			}
			loaded[i] = chains
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &Store{
		index:  make(map[int]IndexRecord, len(records)),
		chains: make(map[int][]ChainRecord, len(records)),
		tree:   btree.New(16),
	}
	for i, rec := range records {
		if loaded[i] == nil {
			continue // missing file, AllowMissing
		}
		st.index[rec.N] = rec
		st.chains[rec.N] = loaded[i]
		st.tree.ReplaceOrInsert(indexItem(rec))

		st.stats.Targets++
		st.stats.Chains += rec.TotalCount
		st.stats.BrauerChains += rec.BrauerCount
		st.stats.NonBrauerChains += rec.NonBrauerCount
		if rec.Size > st.stats.MaxSize {
			st.stats.MaxSize = rec.Size
		}
		if st.stats.MinN == 0 || rec.N < st.stats.MinN {
			st.stats.MinN = rec.N
		}
		if rec.N > st.stats.MaxN {
			st.stats.MaxN = rec.N
		}
	}

	if opts.Progress != nil {
		opts.Progress(fmt.Sprintf("loaded %d chains for %d targets", st.stats.Chains, st.stats.Targets))
	}

	return st, nil
}

func loadChainFile(dir string, rec IndexRecord, opts LoadOptions) ([]ChainRecord, error) {
	path := filepath.Join(dir, ChainFileName(rec.N))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && opts.AllowMissing {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open chain file for n=%d: %w", rec.N, err)
	}
	defer f.Close()

	chains, err := ParseChains(path, f, rec)
	if err != nil {
		return nil, err
	}

	if opts.Strict {
		for _, c := range chains {
			if err := c.Verify(); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	return chains, nil
}

// Query returns the index record and every shortest chain for n.
func (s *Store) Query(n int) (IndexRecord, []ChainRecord, error) {
	rec, ok := s.index[n]
	if !ok {
		return IndexRecord{}, nil, &NotFoundError{N: n}
	}
	return rec, s.chains[n], nil
}

// Index returns the summary record for n.
func (s *Store) Index(n int) (IndexRecord, error) {
	rec, ok := s.index[n]
	if !ok {
		return IndexRecord{}, &NotFoundError{N: n}
	}
	return rec, nil
}

// ChainLength returns the length of a shortest addition chain for n.
func (s *Store) ChainLength(n int) (int, error) {
	rec, err := s.Index(n)
	if err != nil {
		return 0, err
	}
	return rec.Size, nil
}

// AscendRange visits index records with lo <= n <= hi in ascending order,
// stopping early when fn returns false.
func (s *Store) AscendRange(lo, hi int, fn func(IndexRecord) bool) {
	s.tree.AscendRange(indexItem{N: lo}, indexItem{N: hi + 1}, func(i btree.Item) bool {
		return fn(IndexRecord(i.(indexItem)))
	})
}

// Stats returns dataset-wide totals.
func (s *Store) Stats() Stats {
	return s.stats
}
