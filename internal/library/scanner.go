package library

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jscyril/wavejukebox/api"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// DefaultPattern selects wave files.
const DefaultPattern = "*.wav"

// Scanner walks a directory tree and probes matching files with a worker pool
type Scanner struct {
	workers    int
	metaReader *MetadataReader
}

// NewScanner creates a new file scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4 // Default worker count
	}
	return &Scanner{
		workers:    workers,
		metaReader: NewMetadataReader(),
	}
}

// Scan walks root recursively and sends every file whose name matches
// pattern. Unreadable directories are skipped and reported on the error
// channel. Both channels are closed when the walk and all probes are done.
func (s *Scanner) Scan(ctx context.Context, root, pattern string) (<-chan api.FileInfo, <-chan error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	results := make(chan api.FileInfo, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	report := func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	var wg sync.WaitGroup

	// File discovery
	go func() {
		defer close(files)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				report(&playerrors.ScanError{Path: p, Err: err})
				if d != nil && d.IsDir() && p != root {
					return fs.SkipDir
				}
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() || !Match(pattern, d.Name()) {
				return nil
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				abs = p
			}
			select {
			case files <- abs:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			report(&playerrors.ScanError{Path: root, Err: err})
		}
	}()

	// Worker pool
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filePath := range files {
				info, err := s.metaReader.Read(filePath)
				if err != nil {
					report(&playerrors.ScanError{Path: filePath, Err: err})
					continue
				}

				select {
				case results <- info:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
		close(errs)
	}()

	return results, errs
}

// Collect runs Scan to completion and returns the files sorted by name,
// then by path, together with the errors that were reported.
func (s *Scanner) Collect(ctx context.Context, root, pattern string) ([]api.FileInfo, []error) {
	results, errCh := s.Scan(ctx, root, pattern)

	var (
		files []api.FileInfo
		errs  []error
		done  = make(chan struct{})
	)
	go func() {
		defer close(done)
		for err := range errCh {
			errs = append(errs, err)
		}
	}()
	for info := range results {
		files = append(files, info)
	}
	<-done

	sort.Slice(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].Path < files[j].Path
	})
	return files, errs
}
