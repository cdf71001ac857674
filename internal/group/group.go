// Package group partitions scanned files into logical versions by base
// filename and selects playback defaults for each version's format list.
package group

import "strings"

// FileGroup is one base-name partition of a folder scan. Names keep the
// order in which the scan discovered them.
type FileGroup struct {
	Base  string
	Names []string
}

// BaseName strips the final extension from a file name. The suffix is only
// stripped when a dot exists past position 0, so a leading-dot name with no
// other dot (".hidden") is treated as having no extension.
func BaseName(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name
	}
	return name[:i]
}

// Ext returns the lower-cased extension of a file name without the leading
// dot, or "" when BaseName would not strip anything.
func Ext(name string) string {
	base := BaseName(name)
	if len(base) == len(name) {
		return ""
	}
	return strings.ToLower(name[len(base)+1:])
}

// GroupNames partitions file names by base name. Groups appear in
// first-seen order and names keep their scan order within each group.
func GroupNames(names []string) []FileGroup {
	index := make(map[string]int)
	var groups []FileGroup

	for _, name := range names {
		base := BaseName(name)
		i, ok := index[base]
		if !ok {
			i = len(groups)
			index[base] = i
			groups = append(groups, FileGroup{Base: base})
		}
		groups[i].Names = append(groups[i].Names, name)
	}

	return groups
}
