package importer

import (
	"regexp"
	"strings"
)

var snakeSegment = regexp.MustCompile(`_([a-z])`)

// CamelKey converts a snake_case key to camelCase. Only an underscore
// followed by a lowercase letter is folded; anything else is left as is.
func CamelKey(key string) string {
	return snakeSegment.ReplaceAllStringFunc(key, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// MapKeys returns a copy of tree with every object key converted by
// CamelKey. Nested objects are converted recursively; arrays are copied by
// reference and their elements are left untouched.
func MapKeys(tree any) any {
	obj, ok := tree.(map[string]any)
	if !ok {
		return tree
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[CamelKey(k)] = MapKeys(v)
	}
	return out
}
