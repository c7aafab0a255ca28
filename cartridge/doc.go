// Package cartridge decodes exported course archives into in-memory
// course content.
//
// A cartridge is a zip archive (conventionally .imscc or .zip) holding a
// course manifest plus the course's file attachments:
//
//	cartridge.json      course manifest: title and per-resource records
//	web_resources/...   file attachments referenced by the manifest
//
// The manifest groups records under fixed resource keys ([Resource]):
// syllabus, modules, assignments, announcements, topics, quizzes, pages
// and files. Records are free-form JSON objects and decode to [Item],
// a string-keyed map with typed accessors. Module records additionally
// carry an ordered "items" list whose entries reference full records in
// the linked resource groups by content type and identifier.
//
// # Decoding
//
// [Converter] is the decoding collaborator. Construction is free;
// [Converter.Decode] does the expensive work exactly when asked:
//
//	conv := cartridge.NewConverter("biology-101.imscc")
//	content, err := conv.Decode(cartridge.KindEPUB)
//	if err != nil {
//		return err
//	}
//	defer conv.Teardown()
//
// Decode extracts the referenced attachments to a private working
// directory and rewrites each file record's "path" to the extracted
// location. [Converter.Teardown] removes the working directory; it is
// idempotent and safe to call whether or not Decode ran or succeeded.
//
// # Export kinds
//
// The [ExportKind] passed to Decode decides which attachments the
// target container can embed. Attachments the kind cannot carry are
// removed from the files group and reported by
// [Converter.UnsupportedFiles] so callers can surface them.
package cartridge
