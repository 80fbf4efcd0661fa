// Package nameparser extracts call metadata from recording filenames.
//
// Recordings arrive from several device generations, each with its own
// filename encoding, so extraction runs through an ordered chain of parser
// strategies: the first strategy whose CanParse accepts the filename wins.
// The patterns are not mutually exclusive, which makes registration order
// load-bearing.
package nameparser

import (
	"path/filepath"
	"strings"
)

// NotAvailable is the placeholder for metadata that could not be extracted.
const NotAvailable = "N/A"

// CallMetadata holds the fields recoverable from a recording filename.
// Fields that cannot be extracted are set to NotAvailable.
type CallMetadata struct {
	Timestamp   string // "YYYY-MM-DD HH:MM:SS"
	PhoneNumber string
	CallType    string
}

// EmptyMetadata returns a CallMetadata with every field set to NotAvailable.
func EmptyMetadata() CallMetadata {
	return CallMetadata{
		Timestamp:   NotAvailable,
		PhoneNumber: NotAvailable,
		CallType:    NotAvailable,
	}
}

// Strategy is one filename encoding parser.
type Strategy interface {
	// Name identifies the strategy for configuration and logging.
	Name() string
	// CanParse reports whether the basename matches this encoding.
	CanParse(base string) bool
	// Parse extracts metadata from a basename CanParse accepted.
	Parse(base string) CallMetadata
}

// Resolver runs an ordered strategy chain with an optional manual override.
type Resolver struct {
	strategies []Strategy
	override   Strategy
}

// NewResolver creates a resolver with the built-in strategies in their
// canonical order: token, pattern, then any prefix strategies built from the
// given literal prefixes.
func NewResolver(prefixes ...string) *Resolver {
	r := &Resolver{}
	r.Register(TokenStrategy{})
	r.Register(PatternStrategy{})
	for _, p := range prefixes {
		r.Register(NewPrefixStrategy(p))
	}
	return r
}

// Register appends a strategy to the chain. Order matters: earlier
// strategies win when patterns overlap.
func (r *Resolver) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
}

// SetOverride forces a single strategy to be used unconditionally, bypassing
// CanParse checks. Passing nil clears the override.
func (r *Resolver) SetOverride(s Strategy) {
	r.override = s
}

// Override returns the active override strategy, or nil.
func (r *Resolver) Override() Strategy {
	return r.override
}

// FindStrategy returns the registered strategy with the given name, or nil.
func (r *Resolver) FindStrategy(name string) Strategy {
	for _, s := range r.strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Resolve extracts metadata from a filename. The extension is stripped
// before matching. The second return value reports whether any strategy
// matched; when false the metadata is all NotAvailable and the caller should
// log a warning and continue.
func (r *Resolver) Resolve(filename string) (CallMetadata, bool) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	if r.override != nil {
		return r.override.Parse(base), true
	}

	for _, s := range r.strategies {
		if s.CanParse(base) {
			return s.Parse(base), true
		}
	}

	return EmptyMetadata(), false
}

// normalizePhone strips everything except digits and a leading plus, then
// drops the plus.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, c := range raw {
		if c == '+' || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return strings.TrimPrefix(b.String(), "+")
}
