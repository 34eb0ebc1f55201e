package codec

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// goccy/go-yaml: "[3:5] mapping value is not allowed in this context"
	bracketLocationPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)
	// yaml.v3: "yaml: line 3: column 5: did not find expected key"
	lineColumnPattern = regexp.MustCompile(`yaml: line (\d+): column (\d+):\s*(.*)$`)
	// yaml.v3: "yaml: line 3: did not find expected key"
	linePattern = regexp.MustCompile(`yaml: line (\d+):\s*(.*)$`)
	// yaml.v3: "yaml: unmarshal errors:\n  line 3: cannot unmarshal ..."
	unmarshalLinePattern = regexp.MustCompile(`^line (\d+):\s*(.*)$`)
)

// ExtractYAMLError extracts line and column information from YAML parsing
// errors. lineOffset is added to the reported line for sources embedded in a
// larger file. When no location is found, line and column are zero and
// message is the full error text.
func ExtractYAMLError(err error, lineOffset int) (line int, column int, message string) {
	errStr := strings.TrimSpace(err.Error())
	firstLine, _, _ := strings.Cut(errStr, "\n")
	firstLine = strings.TrimSpace(firstLine)

	if m := bracketLocationPattern.FindStringSubmatch(firstLine); m != nil {
		line, _ = strconv.Atoi(m[1])
		column, _ = strconv.Atoi(m[2])
		return line + lineOffset, column, m[3]
	}

	if m := lineColumnPattern.FindStringSubmatch(firstLine); m != nil {
		line, _ = strconv.Atoi(m[1])
		column, _ = strconv.Atoi(m[2])
		return line + lineOffset, column, strings.TrimSpace(m[3])
	}

	if m := linePattern.FindStringSubmatch(firstLine); m != nil {
		line, _ = strconv.Atoi(m[1])
		// Column 1 when the parser does not report one
		return line + lineOffset, 1, strings.TrimSpace(m[2])
	}

	if strings.HasPrefix(errStr, "yaml: unmarshal errors:") {
		for _, l := range strings.Split(errStr, "\n")[1:] {
			if m := unmarshalLinePattern.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
				line, _ = strconv.Atoi(m[1])
				return line + lineOffset, 1, strings.TrimSpace(m[2])
			}
		}
	}

	return 0, 0, errStr
}
