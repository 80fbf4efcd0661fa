package csvcodec

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseBasic(t *testing.T) {
	doc := Parse("\"Filename\",\"Duration\"\n\"a.mp3\",\"00:01:00\"\n\"b.mp3\",\"00:02:00\"\n")

	if !reflect.DeepEqual(doc.Headers, []string{"Filename", "Duration"}) {
		t.Errorf("headers = %v", doc.Headers)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc.Rows))
	}
	if !reflect.DeepEqual(doc.Rows[1], []string{"b.mp3", "00:02:00"}) {
		t.Errorf("row[1] = %v", doc.Rows[1])
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	doc := Parse("\"H1\",\"H2\"\n\n\"a\",\"b\"\n\n\n\"c\",\"d\"\n")
	if len(doc.Rows) != 2 {
		t.Errorf("expected blank lines skipped, got %d rows", len(doc.Rows))
	}
}

func TestParseQuotedCommaAndNewline(t *testing.T) {
	doc := Parse("\"A\"\n\"x, y\nz\"\n")
	if len(doc.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc.Rows))
	}
	if doc.Rows[0][0] != "x, y\nz" {
		t.Errorf("field = %q", doc.Rows[0][0])
	}
}

func TestParseDoubledQuote(t *testing.T) {
	fields := ParseRow(`"say ""hi"" now","plain"`)
	want := []string{`say "hi" now`, "plain"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("fields = %v, want %v", fields, want)
	}
}

func TestParseUnquotedFields(t *testing.T) {
	// Rows appended verbatim from older files may be unquoted.
	fields := ParseRow("a.mp3,00:01:00,true")
	want := []string{"a.mp3", "00:01:00", "true"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("fields = %v, want %v", fields, want)
	}
}

func TestParseMalformedIsBestEffort(t *testing.T) {
	// Unbalanced quote: the remainder of the text is swallowed into the open
	// field rather than raising an error.
	fields := ParseRow(`"open,never closed`)
	if len(fields) != 1 {
		t.Errorf("expected 1 best-effort field, got %v", fields)
	}
}

func TestHeaderIndexCaseInsensitive(t *testing.T) {
	doc := &Document{Headers: []string{"Filename", "Phone Number", "Call Type"}}

	if idx := doc.HeaderIndex("phone number"); idx != 1 {
		t.Errorf("HeaderIndex(phone number) = %d, want 1", idx)
	}
	if idx := doc.HeaderIndex("CALL TYPE"); idx != 2 {
		t.Errorf("HeaderIndex(CALL TYPE) = %d, want 2", idx)
	}
	if idx := doc.HeaderIndex("missing"); idx != -1 {
		t.Errorf("HeaderIndex(missing) = %d, want -1", idx)
	}
}

func TestFieldOutOfRange(t *testing.T) {
	row := []string{"a", "b"}
	if got := Field(row, -1); got != "" {
		t.Errorf("Field(-1) = %q", got)
	}
	if got := Field(row, 5); got != "" {
		t.Errorf("Field(5) = %q", got)
	}
	if got := Field(row, 1); got != "b" {
		t.Errorf("Field(1) = %q", got)
	}
}

// Property: any field survives a serialize/parse round trip, including
// commas, quotes, and newlines.
func TestEscapeRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("parse(serialize([s])) recovers s", prop.ForAll(
		func(s string) bool {
			fields := ParseRow(SerializeRow([]string{s, "sentinel"}))
			return len(fields) == 2 && fields[0] == s && fields[1] == "sentinel"
		},
		gen.OneGenOf(
			gen.AlphaString(),
			gen.OneConstOf(
				`a,b`,
				`quote " inside`,
				"line\nbreak",
				`""`,
				`trailing,comma,`,
				"mixed,\"quoted\"\nand more",
			),
		),
	))

	properties.TestingRun(t)
}

func TestSerializeRoundTripDocument(t *testing.T) {
	headers := []string{"Filename", "Notes"}
	rows := [][]string{
		{"a.mp3", "said \"call back\""},
		{"b.mp3", "one, two\nthree"},
	}

	doc := Parse(Serialize(headers, rows))
	if !reflect.DeepEqual(doc.Headers, headers) {
		t.Errorf("headers = %v", doc.Headers)
	}
	if !reflect.DeepEqual(doc.Rows, rows) {
		t.Errorf("rows = %v", doc.Rows)
	}
}
