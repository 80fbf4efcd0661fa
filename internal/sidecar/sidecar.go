// Package sidecar locates and probes the derived artifacts stored alongside
// a recording: the transcript and the structured analysis record.
//
// Probes are existence checks only. A zero-byte or corrupt sidecar still
// counts as present; content problems surface later, when the file is read.
package sidecar

import (
	"os"
	"path/filepath"
	"strings"
)

// Basename returns the recording path with its extension stripped.
func Basename(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
}

// TranscriptPath returns the transcript sidecar path for a recording.
func TranscriptPath(audioPath string) string {
	return Basename(audioPath) + ".txt"
}

// AnalysisPath returns the analysis sidecar path for a recording.
func AnalysisPath(audioPath string) string {
	return Basename(audioPath) + "_analysis.json"
}

// Exists reports whether a path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HasTranscript reports whether the transcript sidecar exists.
func HasTranscript(audioPath string) bool {
	return Exists(TranscriptPath(audioPath))
}

// HasAnalysis reports whether the analysis sidecar exists.
func HasAnalysis(audioPath string) bool {
	return Exists(AnalysisPath(audioPath))
}

// DurationProvider supplies the playback duration of a recording as an
// "HH:MM:SS" string. Implementations typically shell out to a media probe;
// the reporting core only depends on this interface.
type DurationProvider interface {
	// Duration returns the formatted duration, or an error when the
	// duration cannot be determined. Errors are non-fatal to reporting.
	Duration(audioPath string) (string, error)
}

// DurationFunc adapts a plain function to a DurationProvider.
type DurationFunc func(audioPath string) (string, error)

func (f DurationFunc) Duration(audioPath string) (string, error) {
	return f(audioPath)
}

// FileDurationProvider reads a pre-computed "<base>.duration" sidecar
// containing an HH:MM:SS string. Useful when an upstream stage has already
// probed the media, and for tests.
type FileDurationProvider struct{}

func (FileDurationProvider) Duration(audioPath string) (string, error) {
	data, err := os.ReadFile(Basename(audioPath) + ".duration")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
