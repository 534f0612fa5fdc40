package meili

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
)

// buildFilter translates a filter tree into a Meilisearch filter expression.
// Empty groupings render as "" and are dropped by their parent.
func buildFilter(n filter.Node) string {
	switch v := n.(type) {
	case filter.Condition:
		return buildCondition(v)
	case filter.Grouping:
		return buildGrouping(v)
	default:
		return ""
	}
}

func buildGrouping(g filter.Grouping) string {
	parts := make([]string, 0, len(g.Children()))
	for _, ch := range g.Children() {
		if p := buildFilter(ch); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	switch g.Type() {
	case filter.Or:
		return group(parts, " OR ")
	case filter.Not:
		return "NOT " + wrap(strings.Join(parts, " AND "), len(parts))
	default:
		return group(parts, " AND ")
	}
}

func group(parts []string, sep string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func wrap(expr string, n int) string {
	if n == 1 && strings.HasPrefix(expr, "(") {
		return expr
	}
	return "(" + expr + ")"
}

func buildCondition(c filter.Condition) string {
	switch c.Type() {
	case filter.TypeBoolean:
		return c.Property() + " " + string(c.Op()) + " " + strconv.FormatBool(c.Bool())
	case filter.TypeNumber:
		return c.Property() + " " + string(c.Op()) + " " + strconv.FormatFloat(c.Number(), 'f', -1, 64)
	case filter.TypeString:
		return c.Property() + " " + string(c.Op()) + " " + quote(c.Text())
	case filter.TypeArray:
		// Equality on an array attribute matches when any element is equal.
		return c.Property() + " = " + quote(c.Text())
	default:
		return ""
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
