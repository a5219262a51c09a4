package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("invalid property path")

// Path addresses a property on a component of a node.
type Path struct {
	Component int
	Field     []string
}

func ComponentPath(index int, field ...string) Path {
	return Path{Component: index, Field: append([]string{}, field...)}
}

// Child returns a copy of p extended by one field segment.
func (p Path) Child(name string) Path {
	field := make([]string, 0, len(p.Field)+1)
	field = append(field, p.Field...)
	field = append(field, name)
	return Path{Component: p.Component, Field: field}
}

func (p Path) String() string {
	return fmt.Sprintf("components[%d].%s", p.Component, strings.Join(p.Field, "."))
}

func (p Path) Validate() error {
	if p.Component < 0 {
		return fmt.Errorf("%w: negative component index %d", ErrInvalidPath, p.Component)
	}
	if len(p.Field) == 0 {
		return fmt.Errorf("%w: missing property name", ErrInvalidPath)
	}
	for _, part := range p.Field {
		if strings.TrimSpace(part) == "" || strings.ContainsAny(part, ".[]") {
			return fmt.Errorf("%w: bad segment %q", ErrInvalidPath, part)
		}
	}
	return nil
}

// ParsePath parses the components[<index>].<dotted.path> grammar.
func ParsePath(s string) (Path, error) {
	const prefix = "components["
	if !strings.HasPrefix(s, prefix) {
		return Path{}, fmt.Errorf("%w: %q must start with %s", ErrInvalidPath, s, prefix)
	}
	rest := s[len(prefix):]
	end := strings.Index(rest, "]")
	if end <= 0 {
		return Path{}, fmt.Errorf("%w: %q has no component index", ErrInvalidPath, s)
	}
	index, err := strconv.Atoi(rest[:end])
	if err != nil {
		return Path{}, fmt.Errorf("%w: %q: %v", ErrInvalidPath, s, err)
	}
	rest = rest[end+1:]
	if !strings.HasPrefix(rest, ".") {
		return Path{}, fmt.Errorf("%w: %q has no property", ErrInvalidPath, s)
	}
	p := Path{Component: index, Field: strings.Split(rest[1:], ".")}
	if err := p.Validate(); err != nil {
		return Path{}, err
	}
	return p, nil
}
