package sanitizer

// Pure text patchers. Each one takes the raw XML of a package part and
// returns the patched text plus what changed; all file I/O stays in the
// driver so these are unit-testable without a filesystem.
//
// None of this is XML parsing. OOXML parts written by Word and Google Docs
// are regular enough that anchored regex patches are safe, and a real DOM
// round-trip would reshuffle formatting the downstream converter is
// sensitive to.

import (
	"fmt"
	"regexp"
	"strings"
)

// RTL / complex-script markers as they appear verbatim in word/document.xml.
const (
	rtlMarker  = "<w:rtl/>"
	bidiMarker = "<w:bidi/>"
)

// HasRTLContent reports whether a document part contains RTL or
// bidirectional text markers. Plain substring test over the whole text.
func HasRTLContent(doc string) bool {
	return strings.Contains(doc, rtlMarker) || strings.Contains(doc, bidiMarker)
}

// compatSettingTag matches one whole <w:compatSetting .../> start tag.
// Go's RE2 engine has no lookahead, so attribute-order independence comes
// from containment checks on the matched tag rather than lookahead groups.
var compatSettingTag = regexp.MustCompile(`<w:compatSetting\b[^>]*/?>`)

const (
	compatNameAttr = `w:name="compatibilityMode"`
	compatURIAttr  = `w:uri="http://schemas.microsoft.com/office/word"`
)

// DowngradeCompatMode rewrites w:val="15" to w:val="14" on the
// compatibilityMode setting in settings.xml text. Tags whose name or uri
// attribute does not match, or whose value is not 15, are left untouched.
func DowngradeCompatMode(content string) (string, bool) {
	out := compatSettingTag.ReplaceAllStringFunc(content, func(tag string) string {
		if !strings.Contains(tag, compatNameAttr) || !strings.Contains(tag, compatURIAttr) {
			return tag
		}
		return strings.Replace(tag, `w:val="15"`, `w:val="14"`, 1)
	})
	return out, out != content
}

// Self-closing manifest elements pointing at removed glossary parts.
// Trailing whitespace is swallowed so the scrub leaves no blank runs.
var (
	glossaryRelationship = regexp.MustCompile(`<Relationship[^>]*Target="glossary/[^"]*"[^>]*/>\s*`)
	glossaryOverride     = regexp.MustCompile(`<Override[^>]*PartName="/word/glossary/[^"]*"[^>]*/>\s*`)
)

// ScrubGlossaryRelationships deletes every relationship element targeting
// glossary/... from document.xml.rels text.
func ScrubGlossaryRelationships(content string) (string, bool) {
	out := glossaryRelationship.ReplaceAllString(content, "")
	return out, out != content
}

// ScrubGlossaryOverrides deletes every override element whose part name
// starts with /word/glossary/ from [Content_Types].xml text.
func ScrubGlossaryOverrides(content string) (string, bool) {
	out := glossaryOverride.ReplaceAllString(content, "")
	return out, out != content
}

// sdtOpen is the wrapper opening marker the unwrap loop keys on.
const sdtOpen = "<w:sdt>"

// sdtWrapper matches one complete structured-document-tag wrapper:
// open marker, properties, content, matching close markers. Non-greedy
// with dot-matches-newline, so the leftmost innermost-closing wrapper
// matches first and nested wrappers surface on later passes.
var sdtWrapper = regexp.MustCompile(`(?s)<w:sdt><w:sdtPr>.*?</w:sdtPr><w:sdtContent>(.*?)</w:sdtContent></w:sdt>`)

// UnwrapSDT removes structured-document-tag wrappers from document text,
// keeping only the inner content of each wrapper. One wrapper is removed
// per pass; the loop stops when no open marker remains or a pass makes no
// progress (unmatched markers are left in place, not an error). maxPasses
// bounds the loop so pathological input is reported instead of hanging.
// Returns the unwrapped text and the number of wrappers removed.
func UnwrapSDT(content string, maxPasses int) (string, int, error) {
	count := 0
	for strings.Contains(content, sdtOpen) {
		if count >= maxPasses {
			return content, count, fmt.Errorf("sdt unwrap did not converge after %d passes", maxPasses)
		}
		loc := sdtWrapper.FindStringSubmatchIndex(content)
		if loc == nil {
			// Open marker without a complete wrapper around it. Stop
			// rather than loop forever.
			break
		}
		content = content[:loc[0]] + content[loc[2]:loc[3]] + content[loc[1]:]
		count++
	}
	return content, count, nil
}
