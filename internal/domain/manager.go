package domain

import (
	"slices"
	"strings"
)

// ManagerList is the ordered set of user IDs stored comma-joined in the manager field.
type ManagerList []string

// ParseManagerList splits a stored field value. Blank entries and duplicates are dropped.
func ParseManagerList(raw string) ManagerList {
	var list ManagerList
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" || slices.Contains(list, id) {
			continue
		}
		list = append(list, id)
	}
	return list
}

// Contains reports whether id is in the list.
func (l ManagerList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// With returns the list with id appended, and whether it changed.
func (l ManagerList) With(id string) (ManagerList, bool) {
	if l.Contains(id) {
		return l, false
	}
	out := make(ManagerList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, id), true
}

// Without returns the list with id removed, and whether it changed.
func (l ManagerList) Without(id string) (ManagerList, bool) {
	if !l.Contains(id) {
		return l, false
	}
	out := make(ManagerList, 0, len(l)-1)
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out, true
}

// String joins the list into the stored field value.
func (l ManagerList) String() string {
	return strings.Join(l, ",")
}
