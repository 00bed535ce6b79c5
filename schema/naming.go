package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// NamingStrategy derives table and column names from Go identifiers.
type NamingStrategy interface {
	TableName(typeName string) string
	ColumnName(fieldName string) string
}

type snakeCase struct {
	plural bool
}

// DefaultNamingStrategy gives snake_case columns and plural snake_case
// tables: UserAccount.CreatedAt becomes user_accounts.created_at.
func DefaultNamingStrategy() NamingStrategy { return snakeCase{plural: true} }

// SingularNamingStrategy is DefaultNamingStrategy without pluralization.
func SingularNamingStrategy() NamingStrategy { return snakeCase{} }

func (s snakeCase) TableName(typeName string) string {
	name := toSnakeCase(typeName)
	if !s.plural {
		return name
	}
	// only the last word is a noun: blog_post -> blog_posts
	head, last := "", name
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		head, last = name[:i+1], name[i+1:]
	}
	return head + pluralize(last)
}

func (snakeCase) ColumnName(fieldName string) string { return toSnakeCase(fieldName) }

// toSnakeCase converts Go identifiers to snake_case, keeping acronyms
// together: HTTPServer -> http_server, UserID -> user_id.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func pluralize(name string) string {
	if name == "" {
		return ""
	}
	return preserveCase(name, pluralizeClient.Plural(name))
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase gives result the letter case pattern of original.
func preserveCase(original, result string) string {
	switch {
	case strings.ToLower(original) == original:
		return strings.ToLower(result)
	case strings.ToUpper(original) == original:
		return strings.ToUpper(result)
	case unicode.IsUpper(rune(original[0])):
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	default:
		return strings.ToLower(result)
	}
}
