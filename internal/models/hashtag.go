package models

import (
	"regexp"
	"sort"
	"strings"
)

// hashtagPattern matches a leading '#' followed by one or more letters,
// digits, or underscores. Unicode letters and digits are included so tags
// like "#früh" or "#朝" are recognized.
var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags tokenizes the given memo text and returns the hashtags it
// contains, case-folded to lowercase, de-duplicated, and sorted. An empty or
// tagless memo yields nil. Extraction never fails: ill-formed input simply
// produces no matches.
func ExtractHashtags(memo string) []string {
	if memo == "" {
		return nil
	}

	matches := hashtagPattern.FindAllStringSubmatch(memo, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var tags []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	sort.Strings(tags)
	return tags
}
