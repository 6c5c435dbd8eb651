package tagcell

import (
	"regexp"
	"strconv"
)

const valuePrefix = "__value"

var valuePrefixRe = regexp.MustCompile(`^` + valuePrefix + `\d+__`)

// Entry is the display/edit form of one raw value. Value is the key used by
// the editor and may carry a positional prefix; Label is what gets shown.
type Entry struct {
	Value string
	Label string
	Color string
}

func positionPrefix(i int) string {
	return valuePrefix + strconv.Itoa(i) + "__"
}

// Resolve maps values to entries, one per position. With allowDuplicates every
// key gets the prefix "__value<i>__" so repeated tags stay distinct.
func Resolve(values []string, options []Option, allowDuplicates bool) []Entry {
	if values == nil {
		return []Entry{}
	}
	out := make([]Entry, 0, len(values))
	for i, v := range values {
		prefix := ""
		if allowDuplicates {
			prefix = positionPrefix(i)
		}
		if o, ok := findOption(options, v); ok {
			out = append(out, Entry{Value: prefix + o.Value, Label: o.Label, Color: o.Color})
			continue
		}
		out = append(out, Entry{Value: prefix + v, Label: v})
	}
	return out
}

func findOption(options []Option, v string) (Option, bool) {
	for _, o := range options {
		if o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

// StripPrefix removes one leading positional marker from key.
func StripPrefix(key string) string {
	return valuePrefixRe.ReplaceAllString(key, "")
}

// StripPrefixes turns editor keys back into raw values. Keys are only
// rewritten when duplicates are allowed, since only then were they prefixed.
func StripPrefixes(keys []string, allowDuplicates bool) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if allowDuplicates {
			k = StripPrefix(k)
		}
		out = append(out, k)
	}
	return out
}

func entryKeys(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out
}
