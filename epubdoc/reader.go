package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/tsawler/quizbank/htmldoc"
	"github.com/tsawler/quizbank/model"
)

// ErrInvalidArchive is returned when the file is not a readable ZIP archive.
var ErrInvalidArchive = errors.New("epub: invalid or corrupted archive")

// Reader holds the chapters of an EPUB read into memory.
type Reader struct {
	pkg      *Package
	chapters []Chapter
}

// Open reads an EPUB file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions reads an EPUB file.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	return read(&zr.Reader, opts)
}

// OpenReader reads an EPUB from ra.
func OpenReader(ra io.ReaderAt, size int64, opts Options) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return read(zr, opts)
}

func read(zr *zip.Reader, opts Options) (*Reader, error) {
	if err := checkForDRM(zr); err != nil {
		return nil, err
	}

	opfPath, err := findRootfile(zr)
	if err != nil {
		return nil, err
	}
	pkg, baseDir, err := parsePackage(zr, opfPath)
	if err != nil {
		return nil, err
	}

	r := &Reader{pkg: pkg}
	htmlOpts := htmldoc.Options{Navigation: opts.Navigation}

	for _, ref := range pkg.Spine {
		if opts.LinearOnly && !ref.Linear {
			continue
		}
		item, ok := pkg.Manifest[ref.IDRef]
		if !ok {
			continue
		}
		href := resolveHref(baseDir, item.Href)
		content, err := readZipFile(zr, href)
		if errors.Is(err, ErrMissingContent) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", href, err)
		}

		doc, err := htmldoc.OpenReaderWithOptions(bytes.NewReader(content), htmlOpts)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", href, err)
		}
		r.chapters = append(r.chapters, Chapter{
			ID:         item.ID,
			Href:       href,
			Linear:     ref.Linear,
			Title:      doc.Metadata().Title,
			Paragraphs: doc.Paragraphs(),
		})
	}

	if len(r.chapters) == 0 {
		return nil, ErrEmptySpine
	}
	return r, nil
}

// resolveHref resolves a manifest href against the OPF directory.
func resolveHref(baseDir, href string) string {
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return path.Clean(href)
	}
	return path.Join(baseDir, href)
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Chapters returns the chapters in reading order.
func (r *Reader) Chapters() []Chapter {
	return append([]Chapter(nil), r.chapters...)
}

// Paragraphs returns the paragraphs of every chapter in reading order.
func (r *Reader) Paragraphs() []string {
	var out []string
	for _, ch := range r.chapters {
		out = append(out, ch.Paragraphs...)
	}
	return out
}

// Metadata returns document metadata taken from the package document.
func (r *Reader) Metadata() model.Metadata {
	m := r.pkg.Metadata
	meta := model.NewMetadata("", "EPUB")
	meta.Title = m.Title
	meta.Author = strings.Join(m.Creator, ", ")
	meta.Subject = m.Description
	meta.Keywords = append(meta.Keywords, m.Subjects...)
	meta.Producer = m.Publisher
	meta.ModDate = m.Modified

	if m.Language != "" {
		meta.Custom["language"] = m.Language
	}
	if m.Identifier != "" {
		meta.Custom["identifier"] = m.Identifier
	}
	if r.pkg.Version != "" {
		meta.Custom["epub_version"] = r.pkg.Version
	}
	return meta
}
