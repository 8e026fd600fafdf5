package sources

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidSelection matches every SelectionError via errors.Is
var ErrInvalidSelection = errors.New("invalid source selection")

// SelectionError reports unknown or missing source names
type SelectionError struct {
	// Unknown holds the unrecognized names, sorted. Empty means nothing was selected.
	Unknown []string
}

func (e *SelectionError) Error() string {
	if len(e.Unknown) == 0 {
		return "no sources selected"
	}
	return "unknown sources: " + strings.Join(e.Unknown, ", ")
}

// Is reports whether target is ErrInvalidSelection
func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// Selection is a set of source names
type Selection map[string]struct{}

// Has reports whether name is selected
func (s Selection) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// DefaultSelection returns every registry name joined by commas
func DefaultSelection(registry []Source) string {
	return strings.Join(Names(registry), ",")
}

// ParseSelection parses a comma-separated list of source names. Whitespace
// and duplicates are ignored. Every name must exist in registry and at
// least one must be given.
func ParseSelection(raw string, registry []Source) (Selection, error) {
	selection := Selection{}
	for _, token := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(token); name != "" {
			selection[name] = struct{}{}
		}
	}

	known := make(map[string]bool, len(registry))
	for _, src := range registry {
		known[src.Name] = true
	}

	var unknown []string
	for name := range selection {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &SelectionError{Unknown: unknown}
	}

	if len(selection) == 0 {
		return nil, &SelectionError{}
	}

	return selection, nil
}

// Select returns the registry entries in selection, in registry order
func Select(registry []Source, selection Selection) []Source {
	var selected []Source
	for _, src := range registry {
		if selection.Has(src.Name) {
			selected = append(selected, src)
		}
	}
	return selected
}
