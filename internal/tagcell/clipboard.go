package tagcell

import "strings"

// Paste applies pasted text to d.
//
// Blank text clears the cell. Otherwise the text is split on commas and
// trimmed; later duplicates are dropped unless duplicates are allowed, and
// unknown values are dropped unless creation is allowed. When nothing
// survives the filters Paste reports false and the cell should be left alone.
func Paste(text string, d Data) (Data, bool) {
	if strings.TrimSpace(text) == "" {
		return d.withValues([]string{}), true
	}

	parts := strings.Split(text, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.TrimSpace(p))
	}

	if !d.AllowDuplicates {
		seen := make(map[string]bool, len(values))
		kept := values[:0]
		for _, v := range values {
			if seen[v] {
				continue
			}
			seen[v] = true
			kept = append(kept, v)
		}
		values = kept
	}

	if !d.AllowCreation {
		options := NormalizeOptions(d.Options)
		kept := values[:0]
		for _, v := range values {
			if _, ok := findOption(options, v); ok {
				kept = append(kept, v)
			}
		}
		values = kept
	}

	if len(values) == 0 {
		return Data{}, false
	}
	return d.withValues(values), true
}
