package mapper

import (
	"strings"

	"github.com/githubnext/validata/pkg/document"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer encodes a path as an RFC6901 JSON pointer, e.g. "/items/0/name".
// The empty path is "".
func Pointer(path document.Path) string {
	if len(path) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, seg := range path {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(seg.String()))
	}
	return sb.String()
}
