// Package coursebook assembles decoded course cartridges into
// render-ready documents and exports them as a single EPUB book.
//
// Basic usage:
//
//	path, warnings, err := coursebook.Open("biology-101.imscc").WriteEPUB("out")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", coursebook.FormatWarnings(warnings))
//	}
//
// With options:
//
//	path, _, err := coursebook.Open("biology-101.imscc").
//	    ByContent().
//	    Author("Pat Instructor").
//	    Language("en-US").
//	    WriteEPUB("out")
//
// For advanced use cases, the lower-level cartridge, book, render and
// epub packages are also available.
package coursebook

import (
	"errors"
	"fmt"

	"github.com/tsawler/coursebook/cartridge"
)

// ErrUnknownFormat is returned when the input file cannot be a course
// archive. Detection is by filename; Open fails fast so a typo
// surfaces before any decoding work.
var ErrUnknownFormat = errors.New("coursebook: unrecognized course archive format")

// Open opens a course archive and returns an Exporter for fluent
// configuration. No decoding happens until a content-dependent
// operation runs. Working files the decoder extracts are released by
// terminal operations; callers driving the pipeline by hand should
// defer Cleanup.
//
// Example:
//
//	path, warnings, err := coursebook.Open("biology-101.imscc").WriteEPUB("out")
func Open(filename string) *Exporter {
	e := &Exporter{
		filename: filename,
		decoder:  cartridge.NewConverter(filename),
		options:  defaultOptions(),
	}
	if cartridge.Detect(filename) == cartridge.Unknown {
		e.err = fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}
	return e
}

// New creates an Exporter on an already-constructed decoder. This is
// useful when course content comes from somewhere other than an
// archive on disk. The Exporter owns the decoder's working files and
// releases them through Cleanup.
//
// Example:
//
//	dec := cartridge.NewConverter("course.imscc")
//	set, err := coursebook.New(dec).Templates()
func New(dec Decoder) *Exporter {
	return &Exporter{
		decoder: dec,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	set := coursebook.Must(coursebook.Open("course.imscc").Templates())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExport is a helper that wraps a call to a terminal operation
// returning (T, []Warning, error) and panics if the error is non-nil.
// It discards warnings and returns just the value. It is intended for
// use in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	path := coursebook.MustExport(coursebook.Open("course.imscc").WriteEPUB("out"))
func MustExport[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
