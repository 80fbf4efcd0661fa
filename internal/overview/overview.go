// Package overview computes the whole-tree rollup: the merged base
// summary.csv, per-folder and OVERALL statistics, the 24-hour talk-time
// histogram, and the tree-level grouped JSON rebuild.
package overview

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"callreport/internal/analysis"
	"callreport/internal/atomicfile"
	"callreport/internal/csvcodec"
	"callreport/internal/hms"
	"callreport/internal/nameparser"
	"callreport/internal/output"
	"callreport/internal/scanner"
	"callreport/internal/summary"
)

// Artifact names written at the base folder.
const (
	OverviewFile = "overview.csv"
	HourlyFile   = "overview-by-hour.csv"
)

// OverviewHeader is the overview.csv column schema.
var OverviewHeader = []string{
	"Folder",
	"Total Calls",
	"Unique Phone Numbers",
	"Calls > 1:00",
	"Incoming",
	"Outgoing",
	"Unique Outgoing >1:00",
	"Total Talk Time",
}

// HourlyHeader is the overview-by-hour.csv column schema.
var HourlyHeader = []string{"Hour", "Total Minutes", "Calls"}

// FolderStats holds the aggregate numbers for one folder's summary.csv.
type FolderStats struct {
	Folder             string // path relative to the base
	Total              int
	OverMinute         int
	Incoming           int
	Outgoing           int
	TalkSeconds        int
	Phones             map[string]bool
	OutgoingLongPhones map[string]bool
}

// HourBucket accumulates talk time for one hour of the day.
type HourBucket struct {
	TotalSeconds int
	Calls        int
}

// Aggregator runs the tree-level post-pass over all folder CSVs.
type Aggregator struct {
	Resolver *nameparser.Resolver
	Out      *output.Output
}

// folderCSV pairs a collected subfolder with its summary.csv path.
type folderCSV struct {
	folder string
	path   string
}

// Result carries the computed statistics for callers that index or display
// them beyond the written artifacts.
type Result struct {
	Stats   []*FolderStats
	Overall *FolderStats
	Buckets [24]HourBucket
}

// Aggregate computes and writes every tree-level artifact for baseFolder.
// Two independent passes share the folder discovery step: CSV-based
// statistics, then grouped JSON rebuilt from the analysis sidecars.
func (a *Aggregator) Aggregate(baseFolder string) (*Result, error) {
	collected, err := collectFolderCSVs(baseFolder)
	if err != nil {
		return nil, err
	}

	if err := a.mergeSummaries(baseFolder, collected); err != nil {
		return nil, err
	}

	result := &Result{Stats: make([]*FolderStats, 0, len(collected))}
	for _, fc := range collected {
		rel, err := filepath.Rel(baseFolder, fc.folder)
		if err != nil {
			rel = fc.folder
		}
		st, err := a.folderStats(rel, fc.path, &result.Buckets)
		if err != nil {
			return nil, err
		}
		result.Stats = append(result.Stats, st)
	}
	result.Overall = sumStats(result.Stats)

	if err := a.writeOverview(baseFolder, result.Stats, result.Overall); err != nil {
		return nil, err
	}
	if err := a.writeHourly(baseFolder, &result.Buckets); err != nil {
		return nil, err
	}

	a.rebuildGrouped(baseFolder, collected)

	return result, nil
}

// collectFolderCSVs walks the tree depth-first collecting every subdirectory
// that contains a summary.csv. The base folder itself is excluded: its CSV
// is the merge target, regenerated each run.
func collectFolderCSVs(baseFolder string) ([]folderCSV, error) {
	var collected []folderCSV

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := scanner.List(dir)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir {
				continue
			}
			csvPath := filepath.Join(entry.FullPath, summary.SummaryFile)
			if sidecarExists(csvPath) {
				collected = append(collected, folderCSV{folder: entry.FullPath, path: csvPath})
			}
			if err := walk(entry.FullPath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(baseFolder); err != nil {
		return nil, err
	}
	return collected, nil
}

func sidecarExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeSummaries concatenates all folder CSVs into the base summary.csv.
// The first file's header is canonical; data lines are appended verbatim,
// trusting the fixed column schema. A diverging header only warns.
func (a *Aggregator) mergeSummaries(baseFolder string, collected []folderCSV) error {
	if len(collected) == 0 {
		return nil
	}

	var header string
	var lines []string
	for _, fc := range collected {
		data, err := os.ReadFile(fc.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fc.path, err)
		}
		fileHeader := ""
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if fileHeader == "" {
				fileHeader = line
				continue
			}
			lines = append(lines, line)
		}
		if header == "" {
			header = fileHeader
		} else if fileHeader != header && fileHeader != "" && a.Out != nil {
			a.Out.Warn("header mismatch in %s, rows merged as-is", fc.path)
		}
	}

	merged := header + "\n" + strings.Join(lines, "\n")
	if len(lines) > 0 {
		merged += "\n"
	}
	path := filepath.Join(baseFolder, summary.SummaryFile)
	if err := atomicfile.WriteFile(path, []byte(merged), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// folderStats computes one folder's statistics and feeds the hour histogram.
func (a *Aggregator) folderStats(rel, csvPath string, buckets *[24]HourBucket) (*FolderStats, error) {
	data, err := os.ReadFile(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", csvPath, err)
	}
	doc := csvcodec.Parse(string(data))

	durIdx := doc.HeaderIndex("duration")
	phoneIdx := doc.HeaderIndex("phone number")
	typeIdx := doc.HeaderIndex("call type")
	tsIdx := doc.HeaderIndex("timestamp")

	st := &FolderStats{
		Folder:             rel,
		Phones:             make(map[string]bool),
		OutgoingLongPhones: make(map[string]bool),
	}

	for _, row := range doc.Rows {
		duration := csvcodec.Field(row, durIdx)
		phone := strings.TrimSpace(csvcodec.Field(row, phoneIdx))
		callType := strings.ToLower(csvcodec.Field(row, typeIdx))
		timestamp := csvcodec.Field(row, tsIdx)

		st.Total++
		if phone != "" {
			st.Phones[phone] = true
		}

		seconds := hms.ToSeconds(duration)
		st.TalkSeconds += seconds
		if seconds > 60 {
			st.OverMinute++
		}

		outgoing := strings.Contains(callType, "outgoing")
		switch {
		case outgoing:
			st.Outgoing++
		case strings.Contains(callType, "incoming"), strings.Contains(callType, "incomming"):
			st.Incoming++
		}
		if outgoing && seconds > 60 && phone != "" {
			st.OutgoingLongPhones[phone] = true
		}

		addToHourBucket(buckets, timestamp, duration, seconds)
	}

	return st, nil
}

// addToHourBucket accumulates one row into the histogram. The hour is the
// two characters at offset 11 of the canonical "YYYY-MM-DD HH:MM:SS" layout;
// rows with short or malformed timestamps are silently excluded.
func addToHourBucket(buckets *[24]HourBucket, timestamp, duration string, seconds int) {
	if timestamp == "" || duration == "" {
		return
	}
	if len(timestamp) < 13 {
		return
	}
	hour, err := strconv.Atoi(timestamp[11:13])
	if err != nil || hour < 0 || hour > 23 {
		return
	}
	buckets[hour].TotalSeconds += seconds
	buckets[hour].Calls++
}

// sumStats folds per-folder statistics into the OVERALL row, unioning the
// phone sets so a number active in several folders counts once.
func sumStats(stats []*FolderStats) *FolderStats {
	overall := &FolderStats{
		Folder:             "OVERALL",
		Phones:             make(map[string]bool),
		OutgoingLongPhones: make(map[string]bool),
	}
	for _, st := range stats {
		overall.Total += st.Total
		overall.OverMinute += st.OverMinute
		overall.Incoming += st.Incoming
		overall.Outgoing += st.Outgoing
		overall.TalkSeconds += st.TalkSeconds
		for p := range st.Phones {
			overall.Phones[p] = true
		}
		for p := range st.OutgoingLongPhones {
			overall.OutgoingLongPhones[p] = true
		}
	}
	return overall
}

// fields renders a stats entry as an overview.csv row.
func (st *FolderStats) fields() []string {
	return []string{
		st.Folder,
		strconv.Itoa(st.Total),
		strconv.Itoa(len(st.Phones)),
		strconv.Itoa(st.OverMinute),
		strconv.Itoa(st.Incoming),
		strconv.Itoa(st.Outgoing),
		strconv.Itoa(len(st.OutgoingLongPhones)),
		hms.FromSeconds(st.TalkSeconds),
	}
}

// writeOverview emits overview.csv and prints the console table.
func (a *Aggregator) writeOverview(baseFolder string, stats []*FolderStats, overall *FolderStats) error {
	rows := make([][]string, 0, len(stats)+1)
	for _, st := range stats {
		rows = append(rows, st.fields())
	}
	rows = append(rows, overall.fields())

	path := filepath.Join(baseFolder, OverviewFile)
	data := csvcodec.Serialize(OverviewHeader, rows)
	if err := atomicfile.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if a.Out != nil {
		a.Out.Table(OverviewHeader, rows)
	}
	return nil
}

// writeHourly emits overview-by-hour.csv and prints the console table.
func (a *Aggregator) writeHourly(baseFolder string, buckets *[24]HourBucket) error {
	rows := make([][]string, 24)
	for hour := 0; hour < 24; hour++ {
		next := (hour + 1) % 24
		rows[hour] = []string{
			fmt.Sprintf("%02d:00-%02d:00", hour, next),
			fmt.Sprintf("%.2f", float64(buckets[hour].TotalSeconds)/60),
			strconv.Itoa(buckets[hour].Calls),
		}
	}

	path := filepath.Join(baseFolder, HourlyFile)
	data := csvcodec.Serialize(HourlyHeader, rows)
	if err := atomicfile.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if a.Out != nil {
		a.Out.Table(HourlyHeader, rows)
	}
	return nil
}

// rebuildGrouped rescans the collected folders for analysis sidecars and
// rewrites the three grouped JSON files at the base. This pass is
// independent of the CSV statistics: metadata comes straight from the
// sidecar basenames, and entries carry no duration. Failures are logged and
// never block the CSV artifacts.
func (a *Aggregator) rebuildGrouped(baseFolder string, collected []folderCSV) {
	outgoing := []map[string]interface{}{}
	incoming := []map[string]interface{}{}
	deactivation := []map[string]interface{}{}

	for _, fc := range collected {
		entries, err := scanner.List(fc.folder)
		if err != nil {
			if a.Out != nil {
				a.Out.Warn("failed to rescan %s for analysis sidecars: %v", fc.folder, err)
			}
			continue
		}
		for _, entry := range entries {
			if entry.IsDir || !strings.HasSuffix(entry.Name, "_analysis.json") {
				continue
			}
			rec := analysis.LoadFile(entry.FullPath)
			if rec == nil {
				continue
			}

			base := strings.TrimSuffix(entry.Name, "_analysis.json")
			meta, _ := a.Resolver.Resolve(base)
			grouped := rec.GroupedEntry(base, meta.CallType, meta.Timestamp, meta.PhoneNumber, "")

			switch analysis.Classify(rec, meta.CallType) {
			case analysis.BucketDeactivation:
				deactivation = append(deactivation, grouped)
			case analysis.BucketOutgoing:
				outgoing = append(outgoing, grouped)
			case analysis.BucketIncoming:
				incoming = append(incoming, grouped)
			}
		}
	}

	summary.WriteGrouped(baseFolder, outgoing, incoming, deactivation, a.Out)
}
