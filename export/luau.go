package export

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// renderLuau writes the value as a Luau module. Map keys fold dashes to
// underscores so the document's config-shaped keys come out as plain
// identifiers; keys that still are not identifiers render bracketed.
func renderLuau(value any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("return ")
	if err := writeLuauValue(&buf, value, 0); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func writeLuauValue(buf *bytes.Buffer, value any, depth int) error {
	switch typed := value.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(typed))
	case string:
		buf.WriteString(quoteLuau(typed))
	case int:
		buf.WriteString(strconv.Itoa(typed))
	case int64:
		buf.WriteString(strconv.FormatInt(typed, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(typed, 'g', -1, 64))
	case []any:
		return writeLuauArray(buf, typed, depth)
	case map[string]any:
		return writeLuauTable(buf, typed, depth)
	default:
		return internalError(fmt.Sprintf("cannot render %T as luau", value), nil)
	}
	return nil
}

func writeLuauArray(buf *bytes.Buffer, values []any, depth int) error {
	if len(values) == 0 {
		buf.WriteString("{}")
		return nil
	}

	buf.WriteString("{\n")
	for _, value := range values {
		buf.WriteString(luauIndent(depth + 1))
		if err := writeLuauValue(buf, value, depth+1); err != nil {
			return err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(luauIndent(depth))
	buf.WriteString("}")
	return nil
}

func writeLuauTable(buf *bytes.Buffer, table map[string]any, depth int) error {
	if len(table) == 0 {
		buf.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	for _, key := range keys {
		buf.WriteString(luauIndent(depth + 1))
		buf.WriteString(luauKey(key))
		buf.WriteString(" = ")
		if err := writeLuauValue(buf, table[key], depth+1); err != nil {
			return err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(luauIndent(depth))
	buf.WriteString("}")
	return nil
}

func luauIndent(depth int) string {
	return strings.Repeat("  ", depth)
}

func luauKey(key string) string {
	folded := strings.ReplaceAll(key, "-", "_")
	if isLuauIdentifier(folded) {
		return folded
	}
	return "[" + quoteLuau(key) + "]"
}

var luauKeywords = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {}, "end": {},
	"false": {}, "for": {}, "function": {}, "if": {}, "in": {}, "local": {},
	"nil": {}, "not": {}, "or": {}, "repeat": {}, "return": {}, "then": {},
	"true": {}, "until": {}, "while": {},
}

func isLuauIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := luauKeywords[name]; reserved {
		return false
	}
	for idx, char := range name {
		switch {
		case char == '_':
		case char >= 'a' && char <= 'z':
		case char >= 'A' && char <= 'Z':
		case char >= '0' && char <= '9':
			if idx == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func quoteLuau(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, char := range text {
		switch char {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(char)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
