package file

import (
	"bufio"
	"strings"

	"github.com/keshon/ftt/internal/fs"
)

// Ignore holds the rules of a root's .fttignore. Three rule forms exist:
//
//	dir/    path starts with "dir/"
//	*.ext   path ends with "ext" (no separator or dot awareness)
//	name    path ends with "name"
//
// There is no negation and no other globbing.
type Ignore struct {
	rules []string
}

// ParseIgnore reads one rule per line, skipping blank lines and # comments.
func ParseIgnore(text string) *Ignore {
	m := &Ignore{}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.rules = append(m.rules, line)
	}
	return m
}

// LoadIgnore parses the ignore file at path. A missing file means no rules.
func LoadIgnore(fsys fs.FS, path string) (*Ignore, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if fsys.IsNotExist(err) {
			return &Ignore{}, nil
		}
		return nil, err
	}
	return ParseIgnore(string(data)), nil
}

// Rules returns the parsed rules in file order.
func (m *Ignore) Rules() []string {
	return append([]string(nil), m.rules...)
}

// Match reports whether the relative file path rel is ignored.
func (m *Ignore) Match(rel string) bool {
	for _, rule := range m.rules {
		if matchRule(rule, rel) {
			return true
		}
	}
	return false
}

// MatchDir reports whether every path below directory rel is ignored, which
// only a "dir/" rule can guarantee.
func (m *Ignore) MatchDir(rel string) bool {
	prefix := rel + "/"
	for _, rule := range m.rules {
		if strings.HasSuffix(rule, "/") && strings.HasPrefix(prefix, rule) {
			return true
		}
	}
	return false
}

func matchRule(rule, rel string) bool {
	switch {
	case strings.HasSuffix(rule, "/"):
		return strings.HasPrefix(rel, rule)
	case strings.HasPrefix(rule, "*."):
		return strings.HasSuffix(rel, strings.TrimPrefix(rule, "*."))
	default:
		return strings.HasSuffix(rel, rule)
	}
}
