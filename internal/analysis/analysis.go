// Package analysis models the structured analysis record stored alongside a
// recording and the rules for flattening it into report columns.
//
// Analysis JSON is produced by an external service and is treated as
// untrusted: every field is optional, every nested path defaults to empty,
// and an unparsable file counts as "no analysis" rather than an error.
package analysis

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string, number, or bool into its textual form.
// The upstream service is not consistent about scalar types, so scores and
// probabilities may arrive either quoted or bare.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	// Unknown shape: keep the raw text rather than failing the record.
	*f = FlexString(strings.Trim(s, `"`))
	return nil
}

// CallTag is one entry of the call_tags array.
type CallTag struct {
	Tag          string     `json:"tag"`
	Speaker      string     `json:"speaker"`
	Quote        string     `json:"quote"`
	QualityScore FlexString `json:"quality_score"`
}

// CallTagList decodes call_tags, treating a non-array value as absent.
type CallTagList []CallTag

func (l *CallTagList) UnmarshalJSON(data []byte) error {
	var items []CallTag
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// ConcernList decodes concerns, treating a non-array value as absent. Only
// the element count is reported, so elements stay raw.
type ConcernList []json.RawMessage

func (l *ConcernList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// TodoList decodes todo, treating a non-array value as absent.
type TodoList []FlexString

func (l *TodoList) UnmarshalJSON(data []byte) error {
	var items []FlexString
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// AgentFeedback is the nested advanced_insights.agent_feedback object.
type AgentFeedback struct {
	RapportScore      FlexString `json:"rapport_score"`
	MissedOpportunity FlexString `json:"missed_opportunity"`
}

func (a *AgentFeedback) UnmarshalJSON(data []byte) error {
	type plain AgentFeedback
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*a = AgentFeedback{}
		return nil
	}
	*a = AgentFeedback(p)
	return nil
}

// AdvancedInsights is the nested advanced_insights object.
type AdvancedInsights struct {
	EmotionalState        FlexString     `json:"emotional_state"`
	ConversionProbability FlexString     `json:"conversion_probability"`
	UrgencyLevel          FlexString     `json:"urgency_level"`
	AgentFeedback         *AgentFeedback `json:"agent_feedback"`
}

func (a *AdvancedInsights) UnmarshalJSON(data []byte) error {
	type plain AdvancedInsights
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*a = AdvancedInsights{}
		return nil
	}
	*a = AdvancedInsights(p)
	return nil
}

// Record is a parsed analysis sidecar. The raw decoded object is retained so
// grouped JSON output can spread every original field, including ones this
// struct does not model.
type Record struct {
	Gender           FlexString        `json:"gender"`
	Sentiment        FlexString        `json:"sentiment"`
	Confidence       FlexString        `json:"confidence"`
	CallTags         CallTagList       `json:"call_tags"`
	Concerns         ConcernList       `json:"concerns"`
	PaymentIntent    FlexString        `json:"payment_intent"`
	NextBestAction   FlexString        `json:"next_best_action"`
	Todo             TodoList          `json:"todo"`
	AdvancedInsights *AdvancedInsights `json:"advanced_insights"`

	raw map[string]interface{}
}

// Parse decodes analysis JSON. A record that is not a JSON object returns an
// error; callers treat that the same as a missing sidecar.
func Parse(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.raw); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadFile reads and parses an analysis sidecar. Any failure (missing file,
// unreadable, malformed JSON) returns nil: absence and corruption are
// equivalent for reporting purposes.
func LoadFile(path string) *Record {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	rec, err := Parse(data)
	if err != nil {
		return nil
	}
	return rec
}

// UniqueTags returns the tag names trimmed, with empties dropped and
// duplicates removed case-insensitively. First-seen casing and order win.
func (r *Record) UniqueTags() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, ct := range r.CallTags {
		name := strings.TrimSpace(ct.Tag)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, name)
	}
	return tags
}

// Flattened holds the analysis-derived report columns, all as strings ready
// for CSV emission. A nil Record flattens to all-empty values.
type Flattened struct {
	Gender                string
	Sentiment             string
	Confidence            string
	EmotionalState        string
	RapportScore          string
	CallTags              string
	CallTagsCount         string
	PaymentIntent         string
	NextBestAction        string
	Todo                  string
	ConcernsCount         string
	ConversionProbability string
	UrgencyLevel          string
	MissedOpportunity     string
}

// Flatten applies the column-flattening rules to a record.
func Flatten(r *Record) Flattened {
	if r == nil {
		return Flattened{}
	}

	flat := Flattened{
		Gender:         string(r.Gender),
		Sentiment:      string(r.Sentiment),
		Confidence:     string(r.Confidence),
		PaymentIntent:  string(r.PaymentIntent),
		NextBestAction: string(r.NextBestAction),
	}

	tags := r.UniqueTags()
	flat.CallTags = strings.Join(tags, " | ")
	flat.CallTagsCount = strconv.Itoa(len(tags))

	if r.Concerns != nil {
		flat.ConcernsCount = strconv.Itoa(len(r.Concerns))
	}

	if r.Todo != nil {
		items := make([]string, len(r.Todo))
		for i, item := range r.Todo {
			items[i] = string(item)
		}
		flat.Todo = strings.Join(items, " | ")
	}

	if ai := r.AdvancedInsights; ai != nil {
		flat.EmotionalState = string(ai.EmotionalState)
		flat.ConversionProbability = string(ai.ConversionProbability)
		flat.UrgencyLevel = string(ai.UrgencyLevel)
		if fb := ai.AgentFeedback; fb != nil {
			flat.RapportScore = string(fb.RapportScore)
			flat.MissedOpportunity = string(fb.MissedOpportunity)
		}
	}

	return flat
}

// Classification buckets for grouped JSON output.
const (
	BucketDeactivation = "deactivation"
	BucketOutgoing     = "outgoing"
	BucketIncoming     = "incoming"
	BucketNone         = ""
)

// Classify assigns a record to a bucket. A case-insensitive "deactivation"
// tag wins over the call type; otherwise the call type substring decides,
// accepting the common "incomming" misspelling. Records matching nothing are
// excluded from every bucket.
func Classify(r *Record, callType string) string {
	if r != nil {
		for _, tag := range r.UniqueTags() {
			if strings.EqualFold(tag, "deactivation") {
				return BucketDeactivation
			}
		}
	}

	ct := strings.ToLower(callType)
	switch {
	case strings.Contains(ct, "outgoing"):
		return BucketOutgoing
	case strings.Contains(ct, "incoming"), strings.Contains(ct, "incomming"):
		return BucketIncoming
	default:
		return BucketNone
	}
}

// GroupedEntry spreads the original analysis fields together with the given
// call identity fields. Identity fields overwrite any analysis field of the
// same name. Pass an empty duration to omit the duration key (tree-level
// grouped output carries no duration).
func (r *Record) GroupedEntry(filename, callType, timestamp, phoneNumber, duration string) map[string]interface{} {
	entry := make(map[string]interface{}, len(r.raw)+5)
	for k, v := range r.raw {
		entry[k] = v
	}
	entry["filename"] = filename
	entry["callType"] = callType
	entry["timestamp"] = timestamp
	entry["phoneNumber"] = phoneNumber
	if duration != "" {
		entry["duration"] = duration
	}
	return entry
}
