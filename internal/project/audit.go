package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/internal/logging"
)

// DefaultAuditConcurrency bounds how many data files Audit parses at once.
const DefaultAuditConcurrency = 8

// Shape of a data file's top-level JSON value.
const (
	ShapeCollection = "collection"
	ShapeDocument   = "document"
)

// FileReport is the audit result for one data file.
type FileReport struct {
	Name    string
	Shape   string // ShapeCollection or ShapeDocument; empty when unparsable
	Entries int    // live records for collections, keys for documents
	Slots   int    // array length for collections
	Err     error
}

// OK reports whether the file parsed.
func (r FileReport) OK() bool { return r.Err == nil }

// Report is the audit result for a project.
type Report struct {
	Root  string
	Files []FileReport
}

// Failed returns the reports of files that did not parse.
func (r Report) Failed() []FileReport {
	var failed []FileReport
	for _, f := range r.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// DataFiles lists the .json files of the project's data directory, sorted by name.
func DataFiles(root string) ([]string, error) {
	dir := filepath.Join(root, gamedata.DataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Audit validates root and then parses every data file, up to limit at a time.
// A file that fails to parse is recorded in its FileReport; only a project that
// fails validation, a data directory that cannot be listed, or a cancelled
// context makes Audit itself fail.
func Audit(ctx context.Context, root string, limit int) (Report, error) {
	defer logging.LogPerformance("audit", time.Now())

	root, err := Resolve(root)
	if err != nil {
		return Report{}, err
	}

	names, err := DataFiles(root)
	if err != nil {
		return Report{}, err
	}

	if limit <= 0 {
		limit = DefaultAuditConcurrency
	}

	store := gamedata.NewStore(root, nil)
	files := make([]FileReport, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i] = auditFile(store, name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{Root: root, Files: files}, nil
}

func auditFile(store *gamedata.Store, name string) FileReport {
	report := FileReport{Name: name}

	coll, doc, err := store.LoadFile(name)
	switch {
	case err != nil:
		report.Err = err
	case doc != nil:
		report.Shape = ShapeDocument
		report.Entries = doc.Len()
	default:
		report.Shape = ShapeCollection
		report.Slots = len(coll)
		report.Entries = len(coll.Live())
	}
	return report
}
