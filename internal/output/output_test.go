package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestVerboseSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	o := New(Config{Writer: &buf, ErrWriter: &buf})

	o.Verbose("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("verbose output leaked: %q", buf.String())
	}

	o.Info("shown")
	if got := buf.String(); got != "shown\n" {
		t.Errorf("info output = %q", got)
	}
}

func TestVerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	o := New(Config{Verbose: true, Writer: &buf})

	o.Verbose("detail %s", "x")
	if got := buf.String(); got != "detail x\n" {
		t.Errorf("verbose output = %q", got)
	}
}

func TestWarnGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	o := New(Config{Writer: &out, ErrWriter: &errOut})

	o.Warn("no parser matched %s", "a.mp3")
	if out.Len() != 0 {
		t.Errorf("warning written to stdout: %q", out.String())
	}
	if got := errOut.String(); got != "Warning: no parser matched a.mp3\n" {
		t.Errorf("warning = %q", got)
	}
}

func TestRenderTableAlignment(t *testing.T) {
	got := RenderTable(
		[]string{"Folder", "Total Calls"},
		[][]string{
			{"january", "3"},
			{"feb", "12"},
			{"OVERALL", "15"},
		},
	)

	want := "" +
		" Folder  Total Calls\n" +
		"january            3\n" +
		"    feb           12\n" +
		"OVERALL           15\n"
	if got != want {
		t.Errorf("table =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTableStripsQuotesForDisplay(t *testing.T) {
	got := RenderTable([]string{"Hour"}, [][]string{{`"03:00-04:00"`}})
	if strings.Contains(got, `"`) {
		t.Errorf("quotes not stripped: %q", got)
	}
	if !strings.Contains(got, "03:00-04:00") {
		t.Errorf("cell missing: %q", got)
	}
}

func TestRenderTableShortRow(t *testing.T) {
	got := RenderTable([]string{"A", "B"}, [][]string{{"only"}})
	want := "   A  B\nonly   \n"
	if got != want {
		t.Errorf("table = %q, want %q", got, want)
	}
}
