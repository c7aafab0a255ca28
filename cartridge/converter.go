package cartridge

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the archive entry holding the course manifest.
const ManifestName = "cartridge.json"

// resourcePrefix is the archive directory attachments live under.
const resourcePrefix = "web_resources/"

// ExportKind selects the output container an export targets. The kind
// decides which attachments survive decoding, since not every container
// can embed every media type.
type ExportKind string

const (
	// KindEPUB targets an EPUB book. Attachments outside the supported
	// EPUB media types are dropped and reported as unsupported.
	KindEPUB ExportKind = "epub"
	// KindWeb targets a plain web export; every attachment is kept.
	KindWeb ExportKind = "web"
)

// UnsupportedFile describes an attachment decoding left behind: either
// the export kind cannot embed its media type, or the archive does not
// contain the file the manifest references.
type UnsupportedFile struct {
	Name      string
	MediaType string
}

// ErrNoManifest is returned by Decode when the archive opens as a zip
// but carries no course manifest.
var ErrNoManifest = errors.New("cartridge: archive has no course manifest")

// epubMedia lists media types an EPUB container embeds directly.
var epubMedia = map[string]bool{
	"image/gif":             true,
	"image/jpeg":            true,
	"image/png":             true,
	"image/svg+xml":         true,
	"image/webp":            true,
	"audio/mpeg":            true,
	"audio/mp4":             true,
	"text/css":              true,
	"font/otf":              true,
	"font/ttf":              true,
	"font/woff":             true,
	"font/woff2":            true,
	"application/xhtml+xml": true,
}

// manifest mirrors the JSON layout of cartridge.json.
type manifest struct {
	Title         string `json:"title"`
	Syllabus      []Item `json:"syllabus"`
	Modules       []Item `json:"modules"`
	Assignments   []Item `json:"assignments"`
	Announcements []Item `json:"announcements"`
	Topics        []Item `json:"topics"`
	Quizzes       []Item `json:"quizzes"`
	Pages         []Item `json:"pages"`
	Files         []Item `json:"files"`
}

// Converter decodes a cartridge archive from disk. The zero cost of
// construction matters: pipelines create a Converter up front and only
// pay for decoding if content is actually requested.
type Converter struct {
	path        string
	workDir     string
	unsupported []UnsupportedFile
}

// NewConverter returns a Converter for the archive at path. No file
// access happens until Decode.
func NewConverter(path string) *Converter {
	return &Converter{path: path}
}

// Decode opens the archive, parses the course manifest, and extracts
// the attachments the export kind can carry into a private working
// directory. Each surviving file record's "path" is rewritten to the
// extracted location. Decode owns the working directory until Teardown.
func (c *Converter) Decode(kind ExportKind) (*Content, error) {
	c.unsupported = nil
	if err := c.Teardown(); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(c.path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open archive: %w", err)
	}
	defer zr.Close()

	mf, err := readManifest(&zr.Reader)
	if err != nil {
		return nil, err
	}

	content := &Content{
		Title: mf.Title,
		Groups: map[Resource][]Item{
			ResourceSyllabus:      mf.Syllabus,
			ResourceModules:       mf.Modules,
			ResourceAssignments:   mf.Assignments,
			ResourceAnnouncements: mf.Announcements,
			ResourceTopics:        mf.Topics,
			ResourceQuizzes:       mf.Quizzes,
			ResourcePages:         mf.Pages,
		},
	}

	files, err := c.extractFiles(&zr.Reader, mf.Files, kind)
	if err != nil {
		c.Teardown()
		return nil, err
	}
	content.SetGroup(ResourceFiles, files)
	return content, nil
}

// UnsupportedFiles returns the attachments the most recent Decode left
// behind. The list survives Teardown so callers can report it after
// cleanup.
func (c *Converter) UnsupportedFiles() []UnsupportedFile {
	return c.unsupported
}

// Teardown removes the working directory created by Decode. It is
// idempotent and safe to call in any state, including before Decode
// and after a Decode that failed.
func (c *Converter) Teardown() error {
	if c.workDir == "" {
		return nil
	}
	if err := os.RemoveAll(c.workDir); err != nil {
		return fmt.Errorf("cartridge: remove working directory: %w", err)
	}
	c.workDir = ""
	return nil
}

func readManifest(zr *zip.Reader) (*manifest, error) {
	for _, f := range zr.File {
		if f.Name != ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cartridge: open manifest: %w", err)
		}
		defer rc.Close()

		var mf manifest
		if err := json.NewDecoder(rc).Decode(&mf); err != nil {
			return nil, fmt.Errorf("cartridge: parse manifest: %w", err)
		}
		return &mf, nil
	}
	return nil, ErrNoManifest
}

// extractFiles copies the attachments the kind can embed out of the
// archive and returns the surviving file records. Records are skipped,
// not failed, when the kind rejects their media type or the archive is
// missing their entry; those end up in c.unsupported.
func (c *Converter) extractFiles(zr *zip.Reader, files []Item, kind ExportKind) ([]Item, error) {
	if len(files) == 0 {
		return files, nil
	}

	workDir, err := os.MkdirTemp("", "cartridge-")
	if err != nil {
		return nil, fmt.Errorf("cartridge: create working directory: %w", err)
	}
	c.workDir = workDir

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	kept := make([]Item, 0, len(files))
	for _, it := range files {
		archivePath := it.Text("path")
		mediaType := it.Text("media_type")
		if mediaType == "" {
			mediaType = mediaTypeByExt(archivePath)
		}

		if kind == KindEPUB && !epubMedia[mediaType] {
			c.unsupported = append(c.unsupported, UnsupportedFile{Name: displayName(it), MediaType: mediaType})
			continue
		}

		rel := filepath.FromSlash(strings.TrimPrefix(archivePath, resourcePrefix))
		src, ok := byName[archivePath]
		if !ok || rel == "" || !filepath.IsLocal(rel) {
			c.unsupported = append(c.unsupported, UnsupportedFile{Name: displayName(it), MediaType: mediaType})
			continue
		}

		dst := filepath.Join(workDir, rel)
		if err := extractEntry(src, dst); err != nil {
			return nil, err
		}
		it["path"] = dst
		it["media_type"] = mediaType
		kept = append(kept, it)
	}
	return kept, nil
}

func extractEntry(src *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("cartridge: extract %s: %w", src.Name, err)
	}
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("cartridge: extract %s: %w", src.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cartridge: extract %s: %w", src.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("cartridge: extract %s: %w", src.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("cartridge: extract %s: %w", src.Name, err)
	}
	return nil
}

// displayName picks the human-facing name for an attachment report.
func displayName(it Item) string {
	if t := it.Title(); t != "" {
		return t
	}
	if p := it.Text("path"); p != "" {
		return filepath.Base(filepath.FromSlash(p))
	}
	return it.Identifier()
}

// mediaTypeByExt resolves a media type from a file extension, without
// the charset parameters the mime package appends to text types.
func mediaTypeByExt(name string) string {
	mt := mime.TypeByExtension(filepath.Ext(name))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
