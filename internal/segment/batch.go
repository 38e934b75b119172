package segment

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"screentext/internal/screenshot"
)

// ProcessDir segments every OCR JSON payload in dir using the given number
// of parallel workers. Results come back in the natural-sorted input
// order regardless of which worker finishes first. A payload that fails to
// load or segment is logged, counted, and skipped; it never aborts the
// batch.
func (s *Segmenter) ProcessDir(dir string, workers int) ([]Result, int, error) {
	files, err := listPayloads(dir)
	if err != nil {
		return nil, 0, err
	}
	if len(files) == 0 {
		return nil, 0, fmt.Errorf("no JSON payloads in %s", dir)
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	slots := make([]*Result, len(files))
	var failed atomic.Int64

	jobs := make(chan int, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := s.segmentFile(files[i])
				if err != nil {
					log.Printf("[!] %s: %v", filepath.Base(files[i]), err)
					failed.Add(1)
					continue
				}
				slots[i] = res
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	results := make([]Result, 0, len(files))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, int(failed.Load()), nil
}

// segmentFile loads and segments a single payload. A panic while
// segmenting is converted to an error so one bad screenshot cannot take
// down the batch.
func (s *Segmenter) segmentFile(path string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("segmenting: %v", r)
		}
	}()

	payload, dropped, err := screenshot.LoadPayload(path)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Printf("[!] %s: dropped %d malformed item(s)", filepath.Base(path), dropped)
	}

	name := payload.Filename
	if name == "" {
		name = filepath.Base(path)
	}
	out := s.Segment(payload.Items, name)
	return &out, nil
}

// listPayloads returns the dir's .json files in natural sort order.
func listPayloads(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	screenshot.SortNatural(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}
