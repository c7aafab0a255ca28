package cartridge

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
)

// Format classifies an input file before decoding.
type Format int

const (
	// Unknown indicates a file that is not a zip container at all.
	Unknown Format = iota
	// Archive indicates a zip container without a course manifest.
	Archive
	// CourseCartridge indicates a zip container carrying a course
	// manifest, i.e. something Decode can work with.
	CourseCartridge
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Archive:
		return "Archive"
	case CourseCartridge:
		return "CourseCartridge"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Archive:
		return ".zip"
	case CourseCartridge:
		return ".imscc"
	default:
		return ""
	}
}

// Detect guesses the format from the filename extension alone. An
// .imscc name promises a cartridge; a .zip name only promises a
// container. Use DetectFromReader for an answer based on content.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".imscc":
		return CourseCartridge
	case ".zip":
		return Archive
	default:
		return Unknown
	}
}

// DetectFromReader inspects the content to determine the format. It
// checks the zip magic bytes first and, for zip containers, whether a
// course manifest is present.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	if n < 4 || magic[0] != 0x50 || magic[1] != 0x4B || magic[2] != 0x03 || magic[3] != 0x04 {
		return Unknown, nil
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	for _, f := range zr.File {
		if f.Name == ManifestName {
			return CourseCartridge, nil
		}
	}
	return Archive, nil
}
