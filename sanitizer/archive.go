package sanitizer

// Package archive handling. DOCX files are ZIP archives of OOXML parts;
// extraction and repackaging treat every part as opaque bytes.

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Canonical part paths inside a DOCX package.
const (
	contentTypesPart = "[Content_Types].xml"
	documentPart     = "word/document.xml"
	settingsPart     = "word/settings.xml"
	documentRelsPart = "word/_rels/document.xml.rels"
	glossaryDir      = "word/glossary"
)

// extractArchive extracts every non-directory entry of the zip at srcPath
// into destDir, creating parent directories as needed. An entry whose
// resolved path would land outside destDir aborts the extraction with
// ErrUnsafeEntryPath.
func extractArchive(srcPath, destDir string) error {
	zr, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	for _, f := range zr.File {
		// filepath.Join cleans the path, so ../ sequences in the entry
		// name resolve before the containment check.
		target := filepath.Join(destAbs, f.Name)
		if !strings.HasPrefix(target, destAbs+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafeEntryPath, f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractEntry(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// repackage walks srcDir and writes all files into a new deflate-compressed
// zip at outputPath. [Content_Types].xml, when present, is written as the
// first entry: package readers use it to fast-path manifest lookup and some
// consumers require it at index 0. Other entries keep walk order.
func repackage(srcDir, outputPath string) error {
	type entry struct {
		path string // absolute path on disk
		name string // package-relative, forward slashes
	}

	var entries []entry
	var contentTypes *entry

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		e := entry{path: path, name: filepath.ToSlash(rel)}
		if e.name == contentTypesPart {
			contentTypes = &e
		} else {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk scratch dir: %w", err)
	}
	if contentTypes != nil {
		entries = append([]entry{*contentTypes}, entries...)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	zw := zip.NewWriter(out)

	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("add %s: %w", e.name, err)
		}
		data, err := os.ReadFile(e.path)
		if err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("read %s: %w", e.name, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize archive: %w", err)
	}
	return out.Close()
}

// readArchivePart returns the contents of one named part from the zip at
// srcPath without extracting the whole package.
func readArchivePart(srcPath, partName string) ([]byte, error) {
	zr, err := zip.OpenReader(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != partName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", partName, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in %s", partName, srcPath)
}
