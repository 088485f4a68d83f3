// Package prompt - Embedded corpus loader for baked-in analysis prompts.
// This file uses go:embed to bake prompt atoms into the binary at compile time,
// eliminating filesystem dependencies for built-in prompts.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// embeddedAtoms contains all YAML files from atoms/ baked into the binary.
//
//go:embed atoms
var embeddedAtoms embed.FS

// Atom is one prompt template.
type Atom struct {
	ID       string `yaml:"id"`
	Role     string `yaml:"role"`
	Template string `yaml:"template"`
}

type corpusFile struct {
	Atoms []Atom `yaml:"atoms"`
}

var (
	corpusOnce sync.Once
	corpus     map[string]Atom
)

// Fallback templates used if the embedded corpus fails to parse. Kept
// deliberately terse; the YAML atoms are the maintained versions.
const (
	fallbackSystem = "You are an expert debugging assistant. Answer the user's question about the given execution trace."
	fallbackUser   = "Execution trace:\n\n```\n{{trace}}\n```\n\nQuestion about this execution: {{question}}\n"
)

func loadCorpus() {
	corpus = map[string]Atom{
		"analysis_system": {ID: "analysis_system", Role: "system", Template: fallbackSystem},
		"analysis_user":   {ID: "analysis_user", Role: "user", Template: fallbackUser},
	}

	entries, err := embeddedAtoms.ReadDir("atoms")
	if err != nil {
		fmt.Fprintf(os.Stderr, "[prompt] Warning: embedded corpus unreadable: %v\n", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := embeddedAtoms.ReadFile("atoms/" + name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[prompt] Warning: could not read embedded %s: %v\n", name, err)
			continue
		}

		var cf corpusFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			fmt.Fprintf(os.Stderr, "[prompt] Warning: could not parse embedded %s: %v\n", name, err)
			continue
		}

		for _, atom := range cf.Atoms {
			if atom.ID == "" {
				continue
			}
			corpus[atom.ID] = atom
		}
	}
}

// Lookup returns the atom with the given id and whether it exists.
func Lookup(id string) (Atom, bool) {
	corpusOnce.Do(loadCorpus)
	a, ok := corpus[id]
	return a, ok
}

// Render substitutes {{key}} placeholders in an atom's template.
func (a Atom) Render(vars map[string]string) string {
	out := a.Template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// Build returns the system and user prompts for one trace analysis request.
func Build(traceText, question string) (system, user string) {
	corpusOnce.Do(loadCorpus)

	vars := map[string]string{
		"trace":    traceText,
		"question": question,
	}
	system = corpus["analysis_system"].Render(vars)
	user = corpus["analysis_user"].Render(vars)
	return system, user
}
