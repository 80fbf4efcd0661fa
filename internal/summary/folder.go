package summary

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"callreport/internal/analysis"
	"callreport/internal/atomicfile"
	"callreport/internal/config"
	"callreport/internal/csvcodec"
	"callreport/internal/output"
	"callreport/internal/scanner"
)

// Grouped JSON artifact names, written per folder and again at the tree root.
const (
	OutgoingFile     = "outgoing_calls.json"
	IncomingFile     = "incoming_calls.json"
	DeactivationFile = "deactivation_calls.json"
)

// SummaryFile is the per-folder CSV artifact name.
const SummaryFile = "summary.csv"

// Accumulator collects rows across an entire tree walk. The walk is strictly
// sequential, so appends happen in a deterministic order.
type Accumulator struct {
	Rows []*Row
}

// Aggregator walks a directory tree depth-first, building summary rows and
// writing the per-folder artifacts.
type Aggregator struct {
	Config  *config.Configuration
	Builder *Builder
	Out     *output.Output
}

// Aggregate processes one folder and, recursively, its subdirectories. It
// returns the folder-local rows. Rows for the whole walk accumulate into acc.
//
// A directory listing failure aborts the walk and propagates up; every
// per-file problem degrades locally instead.
func (a *Aggregator) Aggregate(folder string, acc *Accumulator) ([]*Row, error) {
	entries, err := scanner.List(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", folder, err)
	}

	var rows []*Row
	buckets := newBuckets()

	for _, entry := range entries {
		if entry.IsDir {
			// Depth-first, one subdirectory at a time.
			if _, err := a.Aggregate(entry.FullPath, acc); err != nil {
				return nil, err
			}
			continue
		}
		if !a.Config.HasAudioExtension(entry.Extension) {
			continue
		}

		row, rec := a.Builder.Build(entry, folder)
		rows = append(rows, row)
		acc.Rows = append(acc.Rows, row)
		buckets.add(rec, row)

		if a.Out != nil {
			a.Out.Verbose("built row for %s", entry.FullPath)
		}
	}

	if len(rows) > 0 {
		if err := a.writeSummary(folder, rows); err != nil {
			return nil, err
		}
	}

	// Grouped JSON is written even when empty. Failures are logged and do
	// not affect the CSV artifact.
	buckets.write(folder, a.Out)

	return rows, nil
}

// writeSummary emits the folder's summary.csv with the fixed header.
func (a *Aggregator) writeSummary(folder string, rows []*Row) error {
	fields := make([][]string, len(rows))
	for i, row := range rows {
		fields[i] = row.Fields()
	}
	data := csvcodec.Serialize(Header, fields)

	path := filepath.Join(folder, SummaryFile)
	if err := atomicfile.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if a.Out != nil {
		a.Out.Verbose("wrote %s (%d rows)", path, len(rows))
	}
	return nil
}

// buckets holds the three classification groups for one folder.
type buckets struct {
	outgoing     []map[string]interface{}
	incoming     []map[string]interface{}
	deactivation []map[string]interface{}
}

func newBuckets() *buckets {
	return &buckets{
		outgoing:     []map[string]interface{}{},
		incoming:     []map[string]interface{}{},
		deactivation: []map[string]interface{}{},
	}
}

// add classifies a recording's analysis record into a bucket. Recordings
// without a readable analysis record are never grouped.
func (b *buckets) add(rec *analysis.Record, row *Row) {
	if rec == nil {
		return
	}
	entry := rec.GroupedEntry(row.Filename, row.Meta.CallType, row.Meta.Timestamp,
		row.Meta.PhoneNumber, row.Duration)

	switch analysis.Classify(rec, row.Meta.CallType) {
	case analysis.BucketDeactivation:
		b.deactivation = append(b.deactivation, entry)
	case analysis.BucketOutgoing:
		b.outgoing = append(b.outgoing, entry)
	case analysis.BucketIncoming:
		b.incoming = append(b.incoming, entry)
	}
}

// write emits the three grouped JSON files into folder. Write failures are
// logged and swallowed.
func (b *buckets) write(folder string, out *output.Output) {
	WriteGrouped(folder, b.outgoing, b.incoming, b.deactivation, out)
}

// WriteGrouped writes the three grouped JSON artifacts into a directory.
// Failures are logged per file and never propagate: grouped output must not
// block CSV output.
func WriteGrouped(folder string, outgoing, incoming, deactivation []map[string]interface{}, out *output.Output) {
	groups := []struct {
		name    string
		entries []map[string]interface{}
	}{
		{OutgoingFile, outgoing},
		{IncomingFile, incoming},
		{DeactivationFile, deactivation},
	}

	for _, g := range groups {
		entries := g.entries
		if entries == nil {
			entries = []map[string]interface{}{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			if out != nil {
				out.Warn("failed to encode %s: %v", g.name, err)
			}
			continue
		}
		path := filepath.Join(folder, g.name)
		if err := atomicfile.WriteFile(path, append(data, '\n'), 0644); err != nil {
			if out != nil {
				out.Warn("failed to write %s: %v", path, err)
			}
		}
	}
}
