package coursebook

import (
	"fmt"
	"strings"
)

// WarningType classifies a non-fatal finding recorded during assembly.
type WarningType int

const (
	// WarningMissingLinkedItem means a module entry referenced a record
	// its linked group does not contain. The entry is dropped from the
	// module document.
	WarningMissingLinkedItem WarningType = iota
	// WarningUnknownItemType means a module entry carried a content
	// type the pipeline does not know. The entry is dropped.
	WarningUnknownItemType
	// WarningUnsupportedFile means the decoder left an attachment out
	// of the export because the target container cannot embed it.
	WarningUnsupportedFile
)

func (wt WarningType) String() string {
	switch wt {
	case WarningMissingLinkedItem:
		return "MissingLinkedItem"
	case WarningUnknownItemType:
		return "UnknownItemType"
	case WarningUnsupportedFile:
		return "UnsupportedFile"
	default:
		return "Unknown"
	}
}

// Warning describes a non-fatal issue encountered while assembling an
// export. Warnings never stop the pipeline; terminal operations return
// them alongside their results.
type Warning struct {
	Type    WarningType
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Type, w.Message)
}

// FormatWarnings renders warnings as a single human-readable string,
// one per line.
//
// Example:
//
//	path, warnings, err := coursebook.Open("course.imscc").WriteEPUB("out")
//	if len(warnings) > 0 {
//	    log.Println(coursebook.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
