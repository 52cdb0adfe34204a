package sanitizer

import (
	"fmt"
	"os"
	"path/filepath"
)

// removeGlossary deletes the word/glossary/ subtree from the scratch dir
// and scrubs dangling references to it from the document relationships and
// content-types manifests. Returns whether a glossary was present. A
// missing glossary directory is a normal no-op; manifests are rewritten
// only when their content actually changed.
func (s *Sanitizer) removeGlossary(scratchDir string) (bool, error) {
	dir := filepath.Join(scratchDir, filepath.FromSlash(glossaryDir))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("remove glossary dir: %w", err)
	}
	s.log.Info("removed word/glossary/ directory")

	if err := s.scrubManifest(scratchDir, documentRelsPart, ScrubGlossaryRelationships,
		"removed glossary relationships from document.xml.rels"); err != nil {
		return true, err
	}
	if err := s.scrubManifest(scratchDir, contentTypesPart, ScrubGlossaryOverrides,
		"removed glossary overrides from [Content_Types].xml"); err != nil {
		return true, err
	}
	return true, nil
}

// scrubManifest applies a pure scrub patcher to one manifest part on disk.
// An absent manifest is a no-op; the file is rewritten only on change.
func (s *Sanitizer) scrubManifest(scratchDir, part string, scrub func(string) (string, bool), msg string) error {
	path := filepath.Join(scratchDir, filepath.FromSlash(part))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", part, err)
	}
	out, changed := scrub(string(data))
	if !changed {
		return nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", part, err)
	}
	s.log.Info(msg)
	return nil
}
