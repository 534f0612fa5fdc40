package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
)

// buildFilter translates a filter tree into FT.SEARCH query syntax (DIALECT 2).
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
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case filter.Not:
		return "-(" + strings.Join(parts, " ") + ")"
	default:
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
}

func buildCondition(c filter.Condition) string {
	var clause string
	negate := c.Op() == filter.OpNe

	switch c.Type() {
	case filter.TypeBoolean:
		clause = buildTagFilter(c.Property(), strconv.FormatBool(c.Bool()))
	case filter.TypeString, filter.TypeArray:
		clause = buildTagFilter(c.Property(), c.Text())
	case filter.TypeNumber:
		clause = buildNumericFilter(c.Property(), c.Op(), c.Number())
	default:
		return ""
	}

	if negate {
		return "-" + clause
	}
	return clause
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildNumericFilter(key string, op filter.Op, v float64) string {
	minBound := "-inf"
	maxBound := "+inf"
	num := strconv.FormatFloat(v, 'f', -1, 64)

	switch op {
	case filter.OpEq, filter.OpNe:
		minBound, maxBound = num, num
	case filter.OpGt:
		minBound = "(" + num
	case filter.OpGte:
		minBound = num
	case filter.OpLt:
		maxBound = "(" + num
	case filter.OpLte:
		maxBound = num
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"|", "\\|",
	"[", "\\[",
	"]", "\\]",
	"/", "\\/",
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
