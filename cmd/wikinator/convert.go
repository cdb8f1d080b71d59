package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/acmerocket/wikinator"
	"github.com/acmerocket/wikinator/logging"
	"github.com/acmerocket/wikinator/page"
)

// job is one document to convert. rel is its path relative to the source
// root and decides where the page is written.
type job struct {
	path string
	rel  string
}

type result struct {
	job      job
	out      string
	warnings int
	err      error
}

// collectJobs lists the .docx files at source. A single file converts to a
// page named after its stem; a directory is walked and keeps its layout.
func collectJobs(source string) ([]job, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []job{{path: source, rel: filepath.Base(source)}}, nil
	}

	var jobs []job
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDocx(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{path: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", source, err)
	}
	return jobs, nil
}

// isDocx skips the lock files Word leaves next to open documents.
func isDocx(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".docx") && !strings.HasPrefix(name, "~$")
}

// convertAll converts jobs with at most workers conversions in flight. A
// failed document does not stop the others.
func convertAll(ctx context.Context, conv *wikinator.Converter, jobs []job, dest string, workers int, logger logging.Logger) []result {
	if workers < 1 {
		workers = 1
	}

	var (
		wg      sync.WaitGroup
		sem     = make(chan struct{}, workers)
		results = make([]result, len(jobs))
	)

	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = result{job: j, err: ctx.Err()}
				return
			}

			results[i] = convertOne(conv, j, dest, logger)
		}(i, j)
	}
	wg.Wait()
	return results
}

func convertOne(conv *wikinator.Converter, j job, dest string, logger logging.Logger) result {
	p, warnings, err := conv.File(j.path).Convert()
	if err != nil {
		logger.Error("conversion failed", "file", j.path, "error", err)
		return result{job: j, err: err}
	}
	p.Path = page.PathFor("", j.rel)

	out, err := p.Write(dest)
	if err != nil {
		logger.Error("write failed", "file", j.path, "error", err)
		return result{job: j, err: err}
	}

	logger.Info("wrote page", "file", j.path, "out", out, "title", p.Title, "warnings", len(warnings))
	return result{job: j, out: out, warnings: len(warnings)}
}

// report prints written pages to stdout and failures to stderr. It returns
// an error when any document failed.
func report(results []result, stdout, stderr io.Writer) error {
	sort.Slice(results, func(a, b int) bool { return results[a].job.rel < results[b].job.rel })

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "%s: %v\n", r.job.path, r.err)
			continue
		}
		fmt.Fprintln(stdout, r.out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
