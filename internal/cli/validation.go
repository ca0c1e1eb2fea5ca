package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/flux/internal/core/caldate"
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"cycle": "CYC",
	"log":   "LOG",
}

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with helpful message if the ID appears to be a short ID.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil
	}

	if strings.HasPrefix(id, prefix+"-") {
		return nil
	}

	// Short numeric IDs are common typos; suggest the padded form.
	if matched, _ := regexp.MatchString(`^\d+$`, id); matched {
		n, _ := strconv.Atoi(id)
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s-%04d", entityType, id, prefix, n)
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s-XXXX", entityType, id, prefix)
}

// validateDate checks that s is a calendar date in YYYY-MM-DD form.
func validateDate(s string) error {
	if !caldate.Valid(s) {
		return fmt.Errorf("invalid date '%s'. Expected format: YYYY-MM-DD", s)
	}
	return nil
}
