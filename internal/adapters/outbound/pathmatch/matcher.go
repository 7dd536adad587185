// Package pathmatch implements the URL Matcher: deciding whether a
// decoded request path is covered by an entitlement's path template.
// Variable substitution is a narrow hand-rolled scanner rather than a
// general templating engine, so the match semantics stay auditable —
// only `$identifier` tokens are special, everything else in the
// template is a literal.
package pathmatch

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sufield/oidauth/internal/ports"
)

// Matcher implements ports.URLMatcher. It caches the compiled regexp
// for each distinct template string it has seen, since the same
// entitlement template is matched against many request paths across
// requests.
type Matcher struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// New constructs an empty Matcher.
func New() *Matcher {
	return &Matcher{cache: make(map[string]*regexp.Regexp)}
}

// Match reports whether requestPath is covered by template.
//
// An empty template never matches. A template ending in "/" means
// "prefix, any suffix" — the whole subtree is covered. A template with
// no trailing slash requires an exact path-segment boundary at the end
// of the template, optionally followed by "/" and more segments.
func (m *Matcher) Match(template, requestPath string) bool {
	if template == "" {
		return false
	}

	pattern, err := m.compiled(template)
	if err != nil {
		return false
	}
	normalizedPath := normalize(requestPath)
	return pattern.MatchString(normalizedPath)
}

func (m *Matcher) compiled(template string) (*regexp.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.cache[template]; ok {
		return re, nil
	}

	re, err := regexp.Compile(translate(template))
	if err != nil {
		return nil, err
	}
	m.cache[template] = re
	return re, nil
}

// translate turns a template like "repos/pulp/$releasever/$basearch/os"
// into an anchored regular expression. Every `$identifier` token
// becomes `[^/]+` (one non-empty path segment); `$` not followed by an
// identifier character is kept literal.
func translate(template string) string {
	// A trailing "/" ("prefix, any suffix allowed") and no trailing
	// slash ("exact segment boundary, optionally followed by / and
	// more") compile to the same pattern once the trailing slash is
	// stripped: both require the literal prefix to end at a segment
	// boundary, with anything after it starting with "/".
	trimmed := strings.TrimSuffix(normalize(template), "/")

	var b strings.Builder
	b.WriteString("^")

	runes := []rune(trimmed)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '$' && i+1 < len(runes) && isIdentStart(runes[i+1]) {
			j := i + 1
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			b.WriteString(`[^/]+`)
			i = j - 1
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString(`(/.*)?$`)

	return b.String()
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// normalize trims a leading slash and collapses runs of slashes, per
// the matcher's input-normalization rule. Trailing slash is preserved
// (it carries meaning — see translate).
func normalize(path string) string {
	collapsed := path
	for strings.Contains(collapsed, "//") {
		collapsed = strings.ReplaceAll(collapsed, "//", "/")
	}
	return strings.TrimPrefix(collapsed, "/")
}

var _ ports.URLMatcher = (*Matcher)(nil)
