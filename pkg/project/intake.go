package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
	"github.com/Sumatoshi-tech/codeloom/pkg/textutil"
)

// DefaultMaxFileSize caps how large a file may be before its content
// is left unread.
const DefaultMaxFileSize int64 = 500 * 1024

// DefaultIgnoreDirs lists path segments excluded from intake wherever
// they appear in a path.
var DefaultIgnoreDirs = []string{".git", "node_modules", "dist", "build"}

// Progress is invoked after each file is read. index is 1-based.
type Progress func(path string, index, total int)

// ContentCache lets repeated intake passes over the same root reuse
// contents for files whose size and modification time are unchanged.
type ContentCache interface {
	Get(path string, size int64, modTime time.Time) (string, bool)
	Put(path string, size int64, modTime time.Time, content string)
}

// IntakeOptions tune an intake pass. Zero values fall back to the
// defaults above.
type IntakeOptions struct {
	MaxFileSize int64
	IgnoreDirs  []string
	Progress    Progress
	Cache       ContentCache
}

func (o IntakeOptions) withDefaults() IntakeOptions {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}

	if o.IgnoreDirs == nil {
		o.IgnoreDirs = DefaultIgnoreDirs
	}

	return o
}

// IgnoredPath reports whether any segment of the path matches an
// ignored directory name.
func IgnoredPath(path string, ignoreDirs []string) bool {
	for _, seg := range splitSegments(NormalizePath(path)) {
		for _, ignored := range ignoreDirs {
			if seg == ignored {
				return true
			}
		}
	}

	return false
}

// ReadDir walks root and produces intake entries with slash-separated
// paths relative to root. Ignored segments are pruned, content is read
// only for text files under the size cap, and binary-sniffed or
// unreadable files degrade to metadata-only entries. The context is
// checked between files.
func ReadDir(ctx context.Context, root string, opts IntakeOptions) ([]Entry, error) {
	opts = opts.withDefaults()

	type candidate struct {
		rel  string
		size int64
		mod  time.Time
	}

	candidates := []candidate{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && IgnoredPath(rel, opts.IgnoreDirs) {
				return fs.SkipDir
			}

			return nil
		}

		if IgnoredPath(rel, opts.IgnoreDirs) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // unreadable entries degrade to skipped files.
		}

		candidates = append(candidates, candidate{rel: rel, size: info.Size(), mod: info.ModTime()})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(candidates))

	for i, c := range candidates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("readdir %s: %w", root, ctxErr)
		}

		entry := Entry{Path: c.rel, Size: c.size}

		if c.size <= opts.MaxFileSize && lang.IsTextFile(c.rel) {
			if opts.Cache != nil {
				if content, ok := opts.Cache.Get(c.rel, c.size, c.mod); ok {
					entry.Content = content
					entry.HasContent = true
				}
			}

			if !entry.HasContent {
				data, readErr := os.ReadFile(filepath.Join(root, filepath.FromSlash(c.rel)))
				if readErr == nil && !textutil.IsBinary(data) {
					entry.Content = string(data)
					entry.HasContent = true

					if opts.Cache != nil {
						opts.Cache.Put(c.rel, c.size, c.mod, entry.Content)
					}
				}
			}
		}

		entries = append(entries, entry)

		if opts.Progress != nil {
			opts.Progress(c.rel, i+1, len(candidates))
		}
	}

	return entries, nil
}
