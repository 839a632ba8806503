package resource

import (
	"fmt"
	"strings"
)

// Kind identifies one class of remote resource managed by a project.
type Kind string

const (
	Universe         Kind = "universe"
	GamePass         Kind = "game-pass"
	DeveloperProduct Kind = "developer-product"
	Badge            Kind = "badge"
	Place            Kind = "place"
)

// NamedKinds lists the kinds reconciled by name matching, in the fixed order
// the reconciler walks them. Universe is a singleton step and Place is handled
// by the publisher, so neither appears here.
func NamedKinds() []Kind {
	return []Kind{GamePass, DeveloperProduct, Badge}
}

func (k Kind) String() string {
	return string(k)
}

// Display renders the kind the way reports and prompts spell it.
func (k Kind) Display() string {
	switch k {
	case Universe:
		return "Universe"
	case GamePass:
		return "Game Pass"
	case DeveloperProduct:
		return "Developer Product"
	case Badge:
		return "Badge"
	case Place:
		return "Place"
	default:
		return string(k)
	}
}

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.TrimSpace(strings.ToLower(value))) {
	case Universe:
		return Universe, nil
	case GamePass:
		return GamePass, nil
	case DeveloperProduct:
		return DeveloperProduct, nil
	case Badge:
		return Badge, nil
	case Place:
		return Place, nil
	default:
		return "", fmt.Errorf("unknown resource kind %q", value)
	}
}

// Ref names one resource within a project: the kind plus the case-sensitive
// configured name that serves as its identity key.
type Ref struct {
	Kind Kind
	Name string
}

func (r Ref) String() string {
	return fmt.Sprintf("%s %q", r.Kind.Display(), r.Name)
}
