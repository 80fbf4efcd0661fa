// Package summary builds per-recording report rows and writes the per-folder
// summary.csv plus the grouped JSON buckets.
package summary

import (
	"strconv"

	"callreport/internal/analysis"
	"callreport/internal/nameparser"
	"callreport/internal/output"
	"callreport/internal/scanner"
	"callreport/internal/sidecar"
)

// Header is the fixed summary.csv column schema. Every folder writes exactly
// these 21 columns in this order so the tree-level merge can concatenate
// rows verbatim.
var Header = []string{
	"Filename",
	"Duration",
	"Has Transcription",
	"Has Analysis",
	"Timestamp",
	"Phone Number",
	"Call Type",
	"Gender",
	"Sentiment",
	"Confidence",
	"Emotional State",
	"Rapport Score",
	"Call Tags",
	"Call Tags Count",
	"Payment Intent",
	"Next Best Action",
	"To-Do",
	"Concerns Count",
	"Conversion Probability",
	"Urgency Level",
	"Missed Opportunity",
}

// Row is one summary.csv line for a single recording.
type Row struct {
	Folder           string // directory the recording lives in
	Filename         string
	Duration         string // "HH:MM:SS" or "N/A"
	HasTranscription bool
	HasAnalysis      bool
	Meta             nameparser.CallMetadata
	Flat             analysis.Flattened
}

// Fields returns the row in Header order.
func (r *Row) Fields() []string {
	return []string{
		r.Filename,
		r.Duration,
		strconv.FormatBool(r.HasTranscription),
		strconv.FormatBool(r.HasAnalysis),
		r.Meta.Timestamp,
		r.Meta.PhoneNumber,
		r.Meta.CallType,
		r.Flat.Gender,
		r.Flat.Sentiment,
		r.Flat.Confidence,
		r.Flat.EmotionalState,
		r.Flat.RapportScore,
		r.Flat.CallTags,
		r.Flat.CallTagsCount,
		r.Flat.PaymentIntent,
		r.Flat.NextBestAction,
		r.Flat.Todo,
		r.Flat.ConcernsCount,
		r.Flat.ConversionProbability,
		r.Flat.UrgencyLevel,
		r.Flat.MissedOpportunity,
	}
}

// Builder assembles rows from filesystem facts, the duration provider, the
// filename metadata resolver, and the analysis sidecar.
type Builder struct {
	Resolver  *nameparser.Resolver
	Durations sidecar.DurationProvider
	Out       *output.Output
}

// Build creates the row for one recording and returns it together with the
// loaded analysis record (nil when absent or unparsable). Every failure
// along the way degrades to a placeholder value; nothing here is fatal.
func (b *Builder) Build(entry scanner.FileEntry, folder string) (*Row, *analysis.Record) {
	meta, matched := b.Resolver.Resolve(entry.Name)
	if !matched && b.Out != nil {
		b.Out.Warn("no filename parser matched %s", entry.Name)
	}

	duration := nameparser.NotAvailable
	if b.Durations != nil {
		if d, err := b.Durations.Duration(entry.FullPath); err == nil && d != "" {
			duration = d
		} else if err != nil && b.Out != nil {
			b.Out.Verbose("duration unavailable for %s: %v", entry.Name, err)
		}
	}

	hasTranscript := sidecar.HasTranscript(entry.FullPath)
	hasAnalysis := sidecar.HasAnalysis(entry.FullPath)

	var rec *analysis.Record
	if hasAnalysis {
		rec = analysis.LoadFile(sidecar.AnalysisPath(entry.FullPath))
		if rec == nil && b.Out != nil {
			b.Out.Verbose("analysis unreadable for %s, treated as absent", entry.Name)
		}
	}

	row := &Row{
		Folder:           folder,
		Filename:         entry.Name,
		Duration:         duration,
		HasTranscription: hasTranscript,
		HasAnalysis:      hasAnalysis,
		Meta:             meta,
		Flat:             analysis.Flatten(rec),
	}
	return row, rec
}
