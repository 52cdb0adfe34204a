// Package sanitizer repairs DOCX packages that make downstream document
// converters hang or crash.
//
// Three targeted fixes, selected by mode:
//
//   - RTL compat: downgrade compatibilityMode 15 → 14 for Arabic/RTL
//     documents that hang LibreOffice's layout engine.
//   - Glossary removal: strip corrupt word/glossary/ parts (0-byte
//     fontTable.xml and friends) and their manifest references.
//   - SDT unwrap: remove <w:sdt> wrapper blocks from Google Docs exports
//     that crash the converter, keeping their content.
//
// All fixes are regex patches over raw part text, never DOM edits, so the
// surviving markup is byte-for-byte what the producing editor wrote.
package sanitizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Cortexa-LLC/mcp/src/docx-sanitizer/config"
)

// Mode selects which patchers run during a sanitize pass.
type Mode string

const (
	// ModeRTL runs glossary removal and the RTL compat downgrade.
	ModeRTL Mode = "rtl"
	// ModeSDT runs the SDT unwrap only.
	ModeSDT Mode = "sdt"
	// ModeAll runs every fix.
	ModeAll Mode = "all"
)

// ParseMode validates a mode string from a flag or tool argument.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRTL, ModeSDT, ModeAll:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q (expected rtl, sdt, or all)", s)
}

func (m Mode) includesRTL() bool { return m == ModeRTL || m == ModeAll }
func (m Mode) includesSDT() bool { return m == ModeSDT || m == ModeAll }

// Sentinel errors for the failure classes callers distinguish.
var (
	// ErrMissingInput means the input path does not exist.
	ErrMissingInput = errors.New("input file does not exist")
	// ErrUnsafeEntryPath means an archive entry would extract outside the
	// scratch directory (zip-slip).
	ErrUnsafeEntryPath = errors.New("unsafe archive entry path")
	// ErrMissingDocumentPart means the package has no word/document.xml.
	ErrMissingDocumentPart = errors.New("word/document.xml not found")
)

// Sanitizer transforms DOCX packages on disk. It holds no per-run state;
// one value can serve any number of Sanitize calls.
type Sanitizer struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a Sanitizer. A nil logger discards all diagnostics.
func New(cfg *config.Config, logger *slog.Logger) *Sanitizer {
	if cfg == nil {
		cfg = config.Load()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sanitizer{cfg: cfg, log: logger}
}

// Sanitize reads the package at inputPath, applies the fixes selected by
// mode, and writes the result to outputPath. An empty outputPath, or one
// equal to inputPath, overwrites the input in place through a temporary
// file and an atomic rename, so a failed transform never corrupts the
// original.
//
// Sanitize is the single error boundary of the pipeline: individual
// patchers are best-effort no-ops (missing settings part, absent glossary,
// zero wrappers); only structural problems surface as errors: missing input
// or document part, unsafe archive entries, I/O failures.
func (s *Sanitizer) Sanitize(ctx context.Context, inputPath, outputPath string, mode Mode) error {
	if outputPath == "" {
		outputPath = inputPath
	}
	if sameFile(inputPath, outputPath) {
		return s.sanitizeInPlace(ctx, inputPath, mode)
	}
	return s.run(ctx, inputPath, outputPath, mode)
}

// sanitizeInPlace writes to a fresh temp file next to the input and renames
// it over the original only on success.
func (s *Sanitizer) sanitizeInPlace(ctx context.Context, inputPath string, mode Mode) error {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".docx-sanitizer-*.docx")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := s.run(ctx, inputPath, tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, abs); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace input: %w", err)
	}
	return nil
}

// run executes one extract → patch → repackage pipeline.
func (s *Sanitizer) run(_ context.Context, inputPath, outputPath string, mode Mode) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingInput, inputPath)
	}
	if info.Size() > s.cfg.MaxFileSizeBytes {
		return fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), s.cfg.MaxFileSizeBytes)
	}
	s.log.Info("sanitizing", "input", inputPath, "bytes", info.Size(), "mode", string(mode))

	scratch, err := os.MkdirTemp("", "docx-sanitizer-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := extractArchive(inputPath, scratch); err != nil {
		return err
	}

	docPath := filepath.Join(scratch, filepath.FromSlash(documentPart))
	docBytes, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("%w in %s", ErrMissingDocumentPart, inputPath)
	}
	docContent := string(docBytes)
	docModified := false

	if mode.includesRTL() {
		// Glossary stripping is not gated on RTL detection: corrupt
		// glossary parts break conversion of LTR documents too.
		if _, err := s.removeGlossary(scratch); err != nil {
			return err
		}
		if err := s.downgradeCompat(scratch, docContent); err != nil {
			return err
		}
	}

	if mode.includesSDT() {
		newContent, count, err := UnwrapSDT(docContent, s.cfg.MaxUnwrapPasses)
		if err != nil {
			return err
		}
		if count > 0 {
			s.log.Info("unwrapped sdt blocks",
				"count", count, "bytes_removed", len(docContent)-len(newContent))
			docContent = newContent
			docModified = true
		} else {
			s.log.Info("no sdt blocks found")
		}
	}

	if docModified {
		if err := os.WriteFile(docPath, []byte(docContent), 0o644); err != nil {
			return fmt.Errorf("write document part: %w", err)
		}
	}

	if err := repackage(scratch, outputPath); err != nil {
		return err
	}

	if out, err := os.Stat(outputPath); err == nil {
		s.log.Info("sanitized", "output", outputPath,
			"bytes", out.Size(), "delta", out.Size()-info.Size())
	}
	return nil
}

// downgradeCompat applies the RTL-gated compatibilityMode fix to the
// settings part in the scratch tree. Missing settings, no RTL markers, or
// a value other than 15 are all normal no-ops.
func (s *Sanitizer) downgradeCompat(scratchDir, docContent string) error {
	if !HasRTLContent(docContent) {
		s.log.Info("no RTL content detected, skipping compat downgrade")
		return nil
	}
	s.log.Info("RTL content detected, checking compatibilityMode")

	path := filepath.Join(scratchDir, filepath.FromSlash(settingsPart))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no word/settings.xml found, skipping compat fix")
			return nil
		}
		return fmt.Errorf("read settings part: %w", err)
	}

	newSettings, changed := DowngradeCompatMode(string(data))
	if !changed {
		s.log.Info("compatibilityMode is not 15, no change needed")
		return nil
	}
	if err := os.WriteFile(path, []byte(newSettings), 0o644); err != nil {
		return fmt.Errorf("write settings part: %w", err)
	}
	s.log.Info("downgraded compatibilityMode 15 to 14")
	return nil
}

// CheckRTL reports whether the document part of the package at inputPath
// contains RTL markers, without mutating anything.
func (s *Sanitizer) CheckRTL(_ context.Context, inputPath string) (bool, error) {
	data, err := readArchivePart(inputPath, documentPart)
	if err != nil {
		return false, err
	}
	return HasRTLContent(string(data)), nil
}

// Info returns a Markdown summary of available fixes and active
// configuration.
func (s *Sanitizer) Info(_ context.Context) string {
	return fmt.Sprintf(`# DOCX Sanitizer Info

## Modes
- rtl: compatibilityMode 15 to 14 downgrade (RTL documents) + glossary removal
- sdt: unwrap <w:sdt> blocks, keeping their content
- all: every fix (default)

## Configuration
- Max input size: %d MB
- Max SDT unwrap passes: %d`,
		s.cfg.MaxFileSizeMB(), s.cfg.MaxUnwrapPasses)
}

// sameFile reports whether two paths refer to the same file, falling back
// to path equality when the paths cannot be resolved.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
