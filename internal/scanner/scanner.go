// Package scanner handles directory listing for the report walkers.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// ScanError represents an error that occurred during directory listing.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ListOptions configures listing behavior.
type ListOptions struct {
	SymlinkPolicy string // "follow", "skip", or "error"
}

// DefaultListOptions returns the default listing options.
func DefaultListOptions() ListOptions {
	return ListOptions{SymlinkPolicy: SymlinkPolicySkip}
}

// FileEntry represents one entry of a directory listing.
type FileEntry struct {
	Name      string // Entry name only
	FullPath  string // Absolute path
	Extension string // Lower-cased extension including the dot, "" for directories
	IsDir     bool
}

// List enumerates the immediate entries of a directory, files and
// subdirectories alike, in lexical order. Recursion is the caller's concern:
// the report walkers descend one subdirectory at a time.
func List(directory string) ([]FileEntry, error) {
	return ListWithOptions(directory, DefaultListOptions())
}

// ListWithOptions lists a directory with configurable symlink handling.
func ListWithOptions(directory string, opts ListOptions) ([]FileEntry, error) {
	info, err := os.Lstat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	// Handle a symlinked root directory
	if info.Mode()&os.ModeSymlink != 0 {
		switch opts.SymlinkPolicy {
		case SymlinkPolicyError:
			return nil, &ScanError{
				Type: SymlinkError,
				Path: directory,
				Err:  errors.New("symlink encountered with error policy"),
			}
		case SymlinkPolicySkip:
			return []FileEntry{}, nil
		case SymlinkPolicyFollow:
			info, err = os.Stat(directory)
			if err != nil {
				return nil, err
			}
		}
	}

	if !info.IsDir() {
		return nil, &ScanError{
			Type: DirectoryNotFound,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	var listed []FileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())
		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}

		entryInfo, err := os.Lstat(fullPath)
		if err != nil {
			continue // Skip entries we can't stat
		}

		if entryInfo.Mode()&os.ModeSymlink != 0 {
			switch opts.SymlinkPolicy {
			case SymlinkPolicyError:
				return nil, &ScanError{
					Type: SymlinkError,
					Path: fullPath,
					Err:  errors.New("symlink encountered with error policy"),
				}
			case SymlinkPolicySkip:
				continue
			case SymlinkPolicyFollow:
				entryInfo, err = os.Stat(fullPath)
				if err != nil {
					continue // Skip broken symlinks
				}
			}
		}

		fe := FileEntry{
			Name:     entry.Name(),
			FullPath: absPath,
			IsDir:    entryInfo.IsDir(),
		}
		if !fe.IsDir {
			fe.Extension = strings.ToLower(filepath.Ext(entry.Name()))
		}
		listed = append(listed, fe)
	}

	return listed, nil
}
