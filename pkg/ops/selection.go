package ops

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSelection resolves a face selection expression against a mesh with
// count faces. Supported forms: "*" (all faces), "" (no faces), and a
// comma- or space-separated list of face indices.
func ParseSelection(expr string, count int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "":
		return nil, nil
	case "*":
		out := make([]int, count)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("selection %q: %q is not a face index", expr, f)
		}
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("selection %q: face %d out of range [0,%d)", expr, idx, count)
		}
		out = append(out, idx)
	}
	return out, nil
}
