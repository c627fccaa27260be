package pattern

import (
	"context"
	"os"
	"slices"
	"sync"
)

// Counts maps metric IDs to their accumulated totals.
type Counts map[string]int

// ScanResult is the outcome of scanning one file set.
type ScanResult struct {
	Counts  Counts
	Skipped []string // files that could not be read, sorted
}

// ReadFunc loads the content of one file.
type ReadFunc func(path string) ([]byte, error)

// Scanner evaluates a list of metrics over files with a bounded worker pool.
type Scanner struct {
	metrics  []Metric
	workers  int
	readFile ReadFunc
}

// NewScanner creates a scanner. Workers below 1 are treated as 1.
func NewScanner(metrics []Metric, workers int) *Scanner {
	return &Scanner{metrics: metrics, workers: max(workers, 1), readFile: os.ReadFile}
}

// WithReader replaces the file reader, mainly for tests.
func (s *Scanner) WithReader(read ReadFunc) *Scanner {
	clone := *s
	clone.readFile = read
	return &clone
}

// fileCounts is the per-file contribution sent back by a worker.
type fileCounts struct {
	path   string
	counts []int
	err    error
}

// Scan reads each file once, evaluates every metric on it and sums the
// per-file counts. Unreadable files are reported in Skipped and do not
// fail the scan.
func (s *Scanner) Scan(ctx context.Context, files []string) (ScanResult, error) {
	result := ScanResult{Counts: make(Counts, len(s.metrics))}
	for _, m := range s.metrics {
		result.Counts[m.ID] = 0
	}
	if len(files) == 0 {
		return result, nil
	}

	fileCh := make(chan string, len(files))
	resultCh := make(chan fileCounts, len(files))
	var wg sync.WaitGroup

	for range min(s.workers, len(files)) {
		wg.Go(func() {
			for path := range fileCh {
				if ctx.Err() != nil {
					resultCh <- fileCounts{path: path, err: ctx.Err()}
					continue
				}
				resultCh <- s.countFile(path)
			}
		})
	}

	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	wg.Wait()
	close(resultCh)

	// Addition is commutative, so completion order does not matter.
	for fc := range resultCh {
		if fc.err != nil {
			result.Skipped = append(result.Skipped, fc.path)
			continue
		}
		for i, m := range s.metrics {
			result.Counts[m.ID] += fc.counts[i]
		}
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	slices.Sort(result.Skipped)
	return result, nil
}

// countFile evaluates all metrics on a single file.
func (s *Scanner) countFile(path string) fileCounts {
	content, err := s.readFile(path)
	if err != nil {
		return fileCounts{path: path, err: err}
	}
	counts := make([]int, len(s.metrics))
	for i, m := range s.metrics {
		counts[i] = m.Count(content)
	}
	return fileCounts{path: path, counts: counts}
}
