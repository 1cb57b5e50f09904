package emitter

import (
	"path"
	"sort"
	"strconv"
	"strings"
)

// ImportSet collects the imports of one generated file. Names are stable:
// the first package to claim a name keeps it, later ones get a numeric suffix.
type ImportSet struct {
	self   string
	byPath map[string]string
	byName map[string]string
}

// NewImportSet returns an import set for a file in package self.
func NewImportSet(self string) *ImportSet {
	return &ImportSet{
		self:   self,
		byPath: make(map[string]string),
		byName: make(map[string]string),
	}
}

// Add imports pkgPath under name (or its last element) and returns the identifier to use.
// The file's own package yields "".
func (s *ImportSet) Add(pkgPath, name string) string {
	if pkgPath == s.self {
		return ""
	}
	if ident, ok := s.byPath[pkgPath]; ok {
		return ident
	}
	if name == "" {
		name = path.Base(pkgPath)
	}
	ident := name
	for i := 2; ; i++ {
		if _, taken := s.byName[ident]; !taken {
			break
		}
		ident = name + strconv.Itoa(i)
	}
	s.byPath[pkgPath] = ident
	s.byName[ident] = pkgPath
	return ident
}

// Qualify is Add shaped for domain.TypeRef.Expr.
func (s *ImportSet) Qualify(pkgPath, pkgName string) string {
	return s.Add(pkgPath, pkgName)
}

// Reserve claims identifiers for local use so imports do not shadow them.
func (s *ImportSet) Reserve(names ...string) {
	for _, name := range names {
		if _, taken := s.byName[name]; !taken {
			s.byName[name] = ""
		}
	}
}

// Prune drops the imports whose identifier is never selected in src.
func (s *ImportSet) Prune(src string) {
	for pkgPath, ident := range s.byPath {
		if selects(src, ident) {
			continue
		}
		delete(s.byPath, pkgPath)
		delete(s.byName, ident)
	}
}

// Len returns the number of imports.
func (s *ImportSet) Len() int {
	return len(s.byPath)
}

// Write prints the import block: standard library first, then the rest, each sorted.
func (s *ImportSet) Write(w *Writer) {
	if len(s.byPath) == 0 {
		return
	}
	var std, other []string
	for pkgPath := range s.byPath {
		if isStdlib(pkgPath) {
			std = append(std, pkgPath)
		} else {
			other = append(other, pkgPath)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	w.Line("import (").Indent()
	for i, group := range [][]string{std, other} {
		if i > 0 && len(std) > 0 && len(other) > 0 {
			w.Eol()
		}
		for _, pkgPath := range group {
			ident := s.byPath[pkgPath]
			if ident == defaultName(pkgPath) {
				w.Line("%q", pkgPath)
			} else {
				w.Line("%s %q", ident, pkgPath)
			}
		}
	}
	w.Dedent().Line(")")
}

func isStdlib(pkgPath string) bool {
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

// defaultName is the name a plain import of pkgPath binds. Version suffixes
// and go- prefixes are always aliased so the file reads unambiguously.
func defaultName(pkgPath string) string {
	return path.Base(pkgPath)
}

// selects reports whether src contains ident followed by '.' as a whole word.
func selects(src, ident string) bool {
	needle := ident + "."
	for i := 0; ; {
		j := strings.Index(src[i:], needle)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isIdentByte(src[at-1]) {
			return true
		}
		i = at + len(needle)
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}
