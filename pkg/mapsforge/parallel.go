package mapsforge

import (
	"fmt"
	"runtime"
	"sync"
)

// headerEntry is one successfully opened map file's catalog-relevant
// metadata: its bounding box and zoom coverage, plus the path to
// reopen it by when a query actually needs tile data.
type headerEntry struct {
	Path        string
	Info        *MapFileInfo
	ZoomMin     int
	ZoomMax     int
}

// openHeadersParallel opens each path just long enough to decode its
// header (spec §4.B), then closes it; only the metadata needed for
// spatial indexing is kept. Results are returned in the order of paths,
// whatever order the worker goroutines finish in.
func openHeadersParallel(paths []string, opts LoadOptions) ([]headerEntry, []error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if !opts.Parallel {
		return openHeadersSerial(paths, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type job struct {
		index int
		entry headerEntry
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan job, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				entry, err := openOneHeader(paths[index])
				results <- job{index: index, entry: entry, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	entryByIndex := make(map[int]headerEntry)
	var errs []error
	loaded := 0

	for res := range results {
		loaded++
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}
		if res.err != nil {
			err := fmt.Errorf("%s: %w", paths[res.index], res.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "catalog: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		entryByIndex[res.index] = res.entry
	}

	entries := make([]headerEntry, 0, len(entryByIndex))
	for i := range paths {
		if e, ok := entryByIndex[i]; ok {
			entries = append(entries, e)
		}
	}
	return entries, errs
}

func openHeadersSerial(paths []string, opts LoadOptions) ([]headerEntry, []error) {
	entries := make([]headerEntry, 0, len(paths))
	var errs []error

	for i, path := range paths {
		entry, err := openOneHeader(path)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if err != nil {
			err := fmt.Errorf("%s: %w", path, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "catalog: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, errs
}

func openOneHeader(path string) (headerEntry, error) {
	r, err := Open(path)
	if err != nil {
		return headerEntry{}, err
	}
	defer r.Close()

	info := r.Info()
	zoomMin, zoomMax := zoomRange(info)
	return headerEntry{Path: path, Info: info, ZoomMin: zoomMin, ZoomMax: zoomMax}, nil
}

func zoomRange(info *MapFileInfo) (int, int) {
	if len(info.SubFiles) == 0 {
		return 0, 0
	}
	min, max := info.SubFiles[0].ZoomLevelMin, info.SubFiles[0].ZoomLevelMax
	for _, sf := range info.SubFiles[1:] {
		if sf.ZoomLevelMin < min {
			min = sf.ZoomLevelMin
		}
		if sf.ZoomLevelMax > max {
			max = sf.ZoomLevelMax
		}
	}
	return min, max
}
