package module

import "strings"

// Descriptor holds the recognized fields of a parsed .ndmgr file.
type Descriptor struct {
	TargetDir   string
	Ignore      bool
	Description string
}

// ParseDescriptor parses the line-oriented .ndmgr format (spec.md §6.1):
// UTF-8 text, "#" to end-of-line comments, "key = value" pairs with an
// optionally double-quoted value. Unknown keys are ignored silently.
func ParseDescriptor(content []byte) Descriptor {
	var d Descriptor

	for _, rawLine := range strings.Split(string(content), "\n") {
		line := stripComment(rawLine)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := splitKV(line)
		if !ok {
			continue
		}

		switch key {
		case "target_dir":
			d.TargetDir = value
		case "ignore":
			d.Ignore = value == "true"
		case "description":
			d.Description = value
		}
	}

	return d
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i != -1 {
		return line[:i]
	}
	return line
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i == -1 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}
