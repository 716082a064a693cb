package value

import (
	"strconv"
	"strings"
)

// PathMember is one step of a CellPath: a column name or a list index.
type PathMember struct {
	Name  string
	Index int
	IsIdx bool
}

// CellPath addresses a nested field inside a structured value, e.g.
// "size" or "files.0.name".
type CellPath struct {
	Members []PathMember
	Src     Span
}

// ParseCellPath splits s on dots. Purely numeric members are list indexes.
func ParseCellPath(s string, span Span) CellPath {
	var cp CellPath
	cp.Src = span
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n >= 0 {
			cp.Members = append(cp.Members, PathMember{Index: n, IsIdx: true})
			continue
		}
		cp.Members = append(cp.Members, PathMember{Name: part})
	}
	return cp
}

func (p CellPath) String() string {
	parts := make([]string, len(p.Members))
	for i, m := range p.Members {
		if m.IsIdx {
			parts[i] = strconv.Itoa(m.Index)
		} else {
			parts[i] = m.Name
		}
	}
	return strings.Join(parts, ".")
}

// PathMapper applies fn to the value found at path inside v and returns the
// rebuilt outer value.
//
// Nothing implements this yet: commands that accept column paths currently
// transform the whole input.
type PathMapper interface {
	MapAt(v Value, path CellPath, fn func(Value) Value) Value
}
