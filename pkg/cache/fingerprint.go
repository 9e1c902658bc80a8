package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// fingerprint digests the ordered positional arguments and the name-sorted
// named arguments into a 128-bit hex key. Every argument is rendered together
// with its dynamic type name, so (1) and ("1") hash differently. Maps are
// formatted by fmt in sorted key order, which keeps the rendering stable
// across runs.
func fingerprint(args []any, named map[string]any) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%T %v)", arg, arg)
	}
	sb.WriteString("]:[")
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%s %T %v)", name, named[name], named[name])
	}
	sb.WriteByte(']')

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// isPrimitive reports whether v is one of the plain scalar kinds. A memoized
// call marked as carrying a receiver argument only drops its first positional
// argument when that argument is not primitive.
func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
