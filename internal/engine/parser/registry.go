package parser

import (
	"fmt"
	"sort"
	"strings"
)

// LanguageSpec describes how source files map onto a tree-sitter grammar.
type LanguageSpec struct {
	Name       string
	Enabled    bool
	Extensions []string
}

// LanguageOverride is the config-facing patch applied over the defaults.
type LanguageOverride struct {
	Enabled    *bool
	Extensions []string
}

const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangJavaScript: {
			Name:       LangJavaScript,
			Enabled:    true,
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		},
		LangTypeScript: {
			Name:       LangTypeScript,
			Enabled:    true,
			Extensions: []string{".ts", ".mts", ".cts"},
		},
		LangTSX: {
			Name:       LangTSX,
			Enabled:    true,
			Extensions: []string{".tsx"},
		},
	}
}

// BuildLanguageRegistry applies overrides to the default registry. Extra
// extensions are appended to the language's defaults; an extension may only
// be claimed by one enabled language.
func BuildLanguageRegistry(overrides map[string]LanguageOverride) (map[string]LanguageSpec, error) {
	registry := DefaultLanguageRegistry()

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, rawID := range ids {
		override := overrides[rawID]
		id := strings.ToLower(strings.TrimSpace(rawID))
		spec, ok := registry[id]
		if !ok {
			return nil, fmt.Errorf("unknown language %q", rawID)
		}
		if override.Enabled != nil {
			spec.Enabled = *override.Enabled
		}
		for _, ext := range override.Extensions {
			normalized := strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(normalized, ".") || len(normalized) < 2 {
				return nil, fmt.Errorf("languages.%s: extension %q must start with '.'", id, ext)
			}
			if !containsString(spec.Extensions, normalized) {
				spec.Extensions = append(spec.Extensions, normalized)
			}
		}
		registry[id] = spec
	}

	owners := make(map[string]string)
	for _, id := range sortedLanguageIDs(registry) {
		spec := registry[id]
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			if owner, taken := owners[ext]; taken {
				return nil, fmt.Errorf("extension %q is claimed by both %s and %s", ext, owner, id)
			}
			owners[ext] = id
		}
	}

	return registry, nil
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for id, spec := range in {
		copySpec := spec
		copySpec.Extensions = append([]string(nil), spec.Extensions...)
		out[id] = copySpec
	}
	return out
}

func sortedLanguageIDs(registry map[string]LanguageSpec) []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
