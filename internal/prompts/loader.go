// Package prompts carries the LLM prompt templates for extraction,
// translation, and document generation. The JSON files are embedded at
// build time; a prompt is addressed by file name and key.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

var (
	mu     sync.Mutex
	loaded = make(map[string]map[string]string)
)

// MustGet returns the prompt stored under key in the named embedded file,
// e.g. MustGet("generation.json", "customize_cv"). The prompt set is fixed
// at build time, so a missing file or key is a programming error and
// panics.
func MustGet(filename, key string) string {
	prompts, err := load(filename)
	if err != nil {
		panic(fmt.Sprintf("prompts: %v", err))
	}
	prompt, ok := prompts[key]
	if !ok {
		panic(fmt.Sprintf("prompts: no key %q in %s", key, filename))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with the given values. The
// templates only need plain substitution; unknown placeholders are left
// in place so a prompt-data mismatch stays visible.
func Format(template string, data map[string]string) string {
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{."+key+"}}", value)
	}
	return out
}

// load parses an embedded prompt file, once per file name.
func load(filename string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()
	if prompts, ok := loaded[filename]; ok {
		return prompts, nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", filename, err)
	}
	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", filename, err)
	}

	loaded[filename] = prompts
	return prompts, nil
}
