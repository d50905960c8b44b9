package env

import "strings"

// sensitivePatterns identify variables whose values must never be echoed in
// diagnostics. Matching is case-insensitive substring matching.
var sensitivePatterns = []string{
	"PASSWORD",
	"PASSWD",
	"SECRET",
	"_TOKEN",
	"TOKEN_",
	"API_KEY",
	"APIKEY",
	"PRIVATE_KEY",
	"_KEY",
	"KEY_",
	"CREDENTIAL",
	"_AUTH",
	"AUTH_",
	"AUTHORIZATION",
}

const masked = "********"

// IsSensitive reports whether the variable name looks like it carries a secret.
func IsSensitive(name string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// Mask returns value unless name is sensitive, in which case a fixed
// placeholder is returned. Empty values stay empty so that "set but blank"
// remains visible.
func Mask(name, value string) string {
	if value == "" || !IsSensitive(name) {
		return value
	}
	return masked
}
