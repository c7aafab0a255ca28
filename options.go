package coursebook

import "github.com/tsawler/coursebook/cartridge"

// ExportOptions holds configuration for template assembly and the
// final container.
type ExportOptions struct {
	// Grouping: when true, content is grouped by type even if the
	// course defines modules.
	byContent bool

	// Target container; decides which attachments decode keeps.
	kind cartridge.ExportKind

	// Book metadata, all optional.
	language   string
	author     string
	identifier string

	// Cover image bytes, optional.
	cover []byte
}

// defaultOptions returns the default assembly options.
func defaultOptions() ExportOptions {
	return ExportOptions{
		byContent: false,
		kind:      cartridge.KindEPUB,
		language:  "en",
	}
}

// clone creates a copy of ExportOptions.
func (o ExportOptions) clone() ExportOptions {
	return ExportOptions{
		byContent:  o.byContent,
		kind:       o.kind,
		language:   o.language,
		author:     o.author,
		identifier: o.identifier,
		cover:      append([]byte(nil), o.cover...),
	}
}
