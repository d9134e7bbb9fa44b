package analyze

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var desiredExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}

// CollectFiles expands paths into the program documents they name.
// Directories are walked recursively; explicitly named files are kept
// whatever their extension.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasDesiredExtension(p) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// ProcessPaths analyses every program document under paths with a bounded
// pool of workers. Results keep the order of CollectFiles. Files that fail
// are logged and their errors combined into the returned error, alongside
// the results of the files that succeeded. A progress bar is drawn on
// progress when it is not nil and more than one file is processed.
func ProcessPaths(
	ctx context.Context,
	logger *zap.Logger,
	analyzer Analyzer,
	paths []string,
	progress io.Writer,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := CollectFiles(paths)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if progress != nil && len(files) > 1 {
		bar = NewProgressBar(progress, len(files), "analysing")
	}

	type outcome struct {
		result Result
		err    error
		done   bool
	}
	outcomes := make([]outcome, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	var ctxErr error
	for i, file := range files {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case sem <- struct{}{}:
		}
		if ctxErr != nil {
			break
		}
		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			r, err := analyzer.AnalyzeFile(fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			outcomes[i] = outcome{result: r, err: err, done: true}
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, file)
	}
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(progress)
	}

	results := make([]Result, 0, len(files))
	var errs error
	for _, o := range outcomes {
		switch {
		case !o.done:
		case o.err != nil:
			errs = multierr.Append(errs, o.err)
		default:
			results = append(results, o.result)
		}
	}
	if ctxErr != nil {
		return results, multierr.Append(ctxErr, errs)
	}
	return results, errs
}

// NewProgressBar creates the progress bar used for batch runs.
func NewProgressBar(w io.Writer, n int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
