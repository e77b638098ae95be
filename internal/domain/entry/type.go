package entry

import (
	"fmt"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

// Type discriminates the shape of an entry's form data and the
// canonical-content template used for it.
type Type string

// Entry type constants. The set is closed: every switch over Type
// handles exactly these values.
const (
	TypeDefinition Type = "definition"
	TypeHowTo      Type = "how_to"
	TypeError      Type = "error"
)

// ParseType validates a raw type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDefinition, TypeHowTo, TypeError:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown entry type %q: %w", s, domain.ErrValidation)
	}
}

// Valid reports whether t is a known entry type.
func (t Type) Valid() bool {
	_, err := ParseType(string(t))
	return err == nil
}
