// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"sort"
	"strconv"
	"strings"
)

// FormatPages collapses page numbers into ranges. Pages are sorted and
// deduplicated, consecutive runs render as "a-b", single pages as "a",
// and groups are joined with ", ":
//
//	[1 2 3 7]     -> "1-3, 7"
//	[1 2 5 6 9]   -> "1-2, 5-6, 9"
func FormatPages(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)

	var groups []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			groups = append(groups, strconv.Itoa(start))
		} else {
			groups = append(groups, strconv.Itoa(start)+"-"+strconv.Itoa(prev))
		}
	}
	for _, p := range sorted[1:] {
		switch {
		case p == prev:
			continue
		case p == prev+1:
			prev = p
		default:
			flush()
			start, prev = p, p
		}
	}
	flush()
	return strings.Join(groups, ", ")
}
