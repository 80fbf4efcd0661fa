package sidecar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSidecarPaths(t *testing.T) {
	tests := []struct {
		audio          string
		wantTranscript string
		wantAnalysis   string
	}{
		{"/calls/a.mp3", "/calls/a.txt", "/calls/a_analysis.json"},
		{"/calls/rec.2025.amr", "/calls/rec.2025.txt", "/calls/rec.2025_analysis.json"},
		{"/calls/noext", "/calls/noext.txt", "/calls/noext_analysis.json"},
	}

	for _, tt := range tests {
		if got := TranscriptPath(tt.audio); got != tt.wantTranscript {
			t.Errorf("TranscriptPath(%q) = %q, want %q", tt.audio, got, tt.wantTranscript)
		}
		if got := AnalysisPath(tt.audio); got != tt.wantAnalysis {
			t.Errorf("AnalysisPath(%q) = %q, want %q", tt.audio, got, tt.wantAnalysis)
		}
	}
}

func TestProbes(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "call.mp3")

	if HasTranscript(audio) || HasAnalysis(audio) {
		t.Fatal("probes should report absent sidecars")
	}

	// A zero-byte sidecar still counts as present.
	if err := os.WriteFile(filepath.Join(dir, "call.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "call_analysis.json"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if !HasTranscript(audio) {
		t.Error("transcript probe should report presence of empty file")
	}
	if !HasAnalysis(audio) {
		t.Error("analysis probe should report presence of corrupt file")
	}
}

func TestFileDurationProvider(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "call.mp3")

	var p FileDurationProvider
	if _, err := p.Duration(audio); err == nil {
		t.Error("expected error for missing duration sidecar")
	}

	if err := os.WriteFile(filepath.Join(dir, "call.duration"), []byte("00:01:30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := p.Duration(audio)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != "00:01:30" {
		t.Errorf("duration = %q", d)
	}
}
