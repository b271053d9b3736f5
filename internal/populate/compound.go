package populate

import "strings"

type subProperty struct {
	Key   string
	Value string
}

// expandCompound splits one compound cell into its sub-properties. The cell
// splits on the field delimiter, then each part splits once on the
// key-value separator, so a value like "HGNC:HGNC:1100" keeps its payload
// intact. Parts without a separator, or with an empty side, are dropped.
// NCBI-style "-" placeholders count as empty cells.
func expandCompound(value, delimiter, separator string) []subProperty {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil
	}

	var out []subProperty
	for _, part := range strings.Split(value, delimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pieces := strings.SplitN(part, separator, 2)
		if len(pieces) != 2 {
			continue
		}
		key := strings.TrimSpace(pieces[0])
		val := strings.TrimSpace(pieces[1])
		if key == "" || val == "" {
			continue
		}
		out = append(out, subProperty{Key: key, Value: val})
	}
	return out
}
