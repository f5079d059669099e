// Package grammars bundles ready-made schemas for the rdp tool and for tests.
package grammars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dhamidi/rdparse/schema"
)

// Grammar is a named schema with the type parsing starts from.
type Grammar struct {
	Name        string
	Root        string
	Description string
	Example     string
	Schema      *schema.Grammar
}

var builders = map[string]func() *Grammar{
	"arith":    Arith,
	"command":  Command,
	"comment":  Comment,
	"greeting": Greeting,
	"ini":      INI,
	"json":     JSON,
	"tag":      Tag,
}

// Names returns the registered grammar names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All builds every registered grammar.
func All() []*Grammar {
	var result []*Grammar
	for _, name := range Names() {
		result = append(result, builders[name]())
	}
	return result
}

// UnknownError is returned by Lookup for names that are not registered.
type UnknownError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown grammar %q", e.Name)
	}
	return fmt.Sprintf("unknown grammar %q, did you mean %s?", e.Name, strings.Join(e.Suggestions, " or "))
}

// Lookup builds the named grammar. Each call returns a fresh schema.
func Lookup(name string) (*Grammar, error) {
	if build, ok := builders[name]; ok {
		return build(), nil
	}
	return nil, &UnknownError{Name: name, Suggestions: suggest(name)}
}

func suggest(name string) []string {
	ranks := fuzzy.RankFindFold(name, Names())
	sort.Sort(ranks)
	var result []string
	for _, r := range ranks {
		result = append(result, r.Target)
	}
	if len(result) > 0 || name == "" {
		return result
	}
	// fall back to names sharing a prefix, so "jsn" still finds "json"
	for _, n := range Names() {
		if n[0] == strings.ToLower(name)[0] {
			result = append(result, n)
		}
	}
	return result
}
