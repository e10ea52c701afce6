// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus indicates the outcome of fixing one file.
type FileStatus string

const (
	FileFixed   FileStatus = "fixed"
	FileClean   FileStatus = "clean"
	FileSkipped FileStatus = "skipped"
	FileFailed  FileStatus = "failed"
)

// LineReport records one line that was changed or still looks suspect.
type LineReport struct {
	// Path is the file the line belongs to.
	Path string `json:"path" yaml:"path" db:"path"`

	// Line is the 1-based line number.
	Line int `json:"line" yaml:"line" db:"line"`

	// Original is the line as read, without its line ending.
	Original string `json:"original" yaml:"original" db:"original"`

	// Fixed is the line as written. Equal to Original when unchanged.
	Fixed string `json:"fixed" yaml:"fixed" db:"fixed"`

	// Before and After are the confidence scores of Original and Fixed.
	Before int `json:"before" yaml:"before" db:"conf_before"`
	After  int `json:"after" yaml:"after" db:"conf_after"`
}

// Changed reports whether the fixer rewrote the line.
func (r LineReport) Changed() bool {
	return r.Original != r.Fixed
}

// FileReport summarizes the fix pass over one file.
type FileReport struct {
	Path    string     `json:"path" yaml:"path" db:"path"`
	Status  FileStatus `json:"status" yaml:"status" db:"status"`
	ModTime time.Time  `json:"mod_time" yaml:"mod_time" db:"mod_time"`

	// Lines is the number of lines in the file.
	Lines int `json:"lines" yaml:"lines" db:"lines"`

	// Changed is the number of lines the fixer rewrote.
	Changed int `json:"changed" yaml:"changed" db:"changed"`

	// MinConfidence is the lowest confidence of any line after fixing.
	MinConfidence int `json:"min_confidence" yaml:"min_confidence" db:"min_confidence"`

	// Reports lists changed lines and lines that remain below the
	// reporting threshold.
	Reports []LineReport `json:"reports,omitempty" yaml:"reports,omitempty" db:"-"`

	// Err holds the failure message when Status is FileFailed.
	Err string `json:"error,omitempty" yaml:"error,omitempty" db:"-"`
}
