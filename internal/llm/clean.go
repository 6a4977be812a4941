// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "strings"

// CleanJSON prepares raw model output for json.Unmarshal. Models routinely
// wrap JSON in markdown fences or surround it with prose; this strips the
// fences and slices out the outermost object.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
