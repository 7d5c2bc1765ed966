package report

import (
	"fmt"
	"strings"

	"github.com/roach88/typematrix/internal/catalog"
)

// FormatLines renders a container's elements the way the console transcript
// prints them. Scalar and pointer categories produce one bracketed line;
// aggregates and enums produce a heading followed by one line per element.
func FormatLines(c catalog.Category, vals []catalog.Value) []string {
	switch c {
	case catalog.Struct:
		return elementLines("Point array:", vals)
	case catalog.OwnedAggregatePointer:
		return elementLines("Dynamic Point* array:", vals)
	case catalog.Enum:
		return elementLines("Color array:", vals)
	}

	label := c.String() + " array"
	if c == catalog.TypedPointer {
		label = "int* array dereferenced"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatElem(c, v)
	}
	return []string{fmt.Sprintf("%s: [%s]", label, strings.Join(parts, ", "))}
}

func elementLines(heading string, vals []catalog.Value) []string {
	lines := make([]string, 0, len(vals)+1)
	lines = append(lines, heading)
	for i, v := range vals {
		switch val := v.(type) {
		case catalog.Point:
			lines = append(lines, fmt.Sprintf("  [%d]: (%d, %d) %q", i, val.X, val.Y, string(val.Name)))
		case catalog.Color:
			lines = append(lines, fmt.Sprintf("  [%d]: %s (%d)", i, val.Name(), int(val)))
		default:
			lines = append(lines, fmt.Sprintf("  [%d]: %s", i, catalog.Render(v)))
		}
	}
	return lines
}

// formatElem applies the per-category printf verb.
func formatElem(c catalog.Category, v catalog.Value) string {
	switch val := v.(type) {
	case catalog.Int:
		return fmt.Sprintf("%d", int64(val))
	case catalog.Uint:
		return fmt.Sprintf("%d", uint64(val))
	case catalog.Byte:
		return fmt.Sprintf("%c", byte(val))
	case catalog.Float:
		switch c {
		case catalog.FloatNative:
			return fmt.Sprintf("%.2f", float64(val))
		case catalog.Float32:
			return fmt.Sprintf("%.3f", float64(val))
		default:
			return fmt.Sprintf("%.6f", float64(val))
		}
	case catalog.Bool:
		if val {
			return "true"
		}
		return "false"
	case catalog.Ref:
		switch c {
		case catalog.RawPointer:
			return fmt.Sprintf("&%s[%d]", val.Pool, val.Slot)
		default:
			return formatTarget(val.Target)
		}
	}
	return catalog.Render(v)
}

func formatTarget(v catalog.Value) string {
	switch val := v.(type) {
	case catalog.Text:
		return fmt.Sprintf("%q", string(val))
	case catalog.Int:
		return fmt.Sprintf("%d", int64(val))
	}
	return catalog.Render(v)
}
