package harness

import (
	"strconv"
	"strings"
)

// FormatSequence renders values as "{v0, v1, ..., vn}". Empty input gives "{}".
func FormatSequence(values []int) string {
	var b strings.Builder
	b.Grow(2 + len(values)*4)
	b.WriteByte('{')
	var buf [20]byte
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Write(strconv.AppendInt(buf[:0], int64(v), 10))
	}
	b.WriteByte('}')
	return b.String()
}
