package history

import (
	"strings"
	"unicode"
)

// tableFor maps a logical singular entity or master name to its physical
// table, e.g. "functionalArea" -> "functional_areas", "status" -> "statuses".
func tableFor(logical string) string {
	snake := toSnake(logical)
	if strings.HasSuffix(snake, "s") {
		return snake + "es"
	}
	return snake + "s"
}

// foreignKeyColumn is the column a row uses to reference the given logical
// name, e.g. "role" -> "role_id".
func foreignKeyColumn(logical string) string {
	return toSnake(logical) + "_id"
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
