package util

import (
	"strings"

	"github.com/samber/lo"
)

// SliceToMap parses "key=value" strings into a map. Entries without '='
// become keys with an empty value.
func SliceToMap(slice []string) map[string]string {
	return lo.SliceToMap(slice, func(s string) (string, string) {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 1 {
			return parts[0], ""
		}
		return parts[0], parts[1]
	})
}
