package formats

import (
	"encoding/json"
	"sort"

	"hooklint/internal/core/ports"
	"hooklint/internal/engine/lint"
	"hooklint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	// ruleIDParseError is reported for files the parser rejected.
	ruleIDParseError = "parse-error"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	HelpURI          string                 `json:"helpUri,omitempty"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a run. File URIs are
// made relative to the project root so reports are safe to share.
func GenerateSARIF(result ports.RunResult, opts Options) ([]byte, error) {
	rules, index := buildSARIFRules(result, opts.Rules)
	results := make([]sarifResult, 0)

	for _, f := range result.Files {
		uri := relativePath(opts.ProjectRoot, f.Path)
		for _, m := range f.Messages {
			id := m.RuleID
			if m.Fatal || id == "" {
				id = ruleIDParseError
			}
			r := sarifResult{
				RuleID:    id,
				RuleIndex: index[id],
				Level:     sarifLevel(m.Severity),
				Message:   sarifMessage{Text: m.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri, URIBaseID: "%SRCROOT%"},
					},
				}},
			}
			if m.Line > 0 {
				r.Locations[0].PhysicalLocation.Region = &sarifRegion{
					StartLine:   m.Line,
					StartColumn: m.Column,
					EndLine:     m.EndLine,
					EndColumn:   m.EndColumn,
				}
			}
			results = append(results, r)
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "hooklint",
						Version:        version.Version,
						InformationURI: "https://github.com/hooklint/hooklint",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that have findings, sorted by id,
// with each id's position in the list.
func buildSARIFRules(result ports.RunResult, meta map[string]*lint.Rule) ([]sarifRule, map[string]int) {
	levels := make(map[string]string)
	for _, f := range result.Files {
		for _, m := range f.Messages {
			id := m.RuleID
			if m.Fatal || id == "" {
				id = ruleIDParseError
			}
			if _, seen := levels[id]; !seen {
				levels[id] = sarifLevel(m.Severity)
			}
		}
	}

	ids := make([]string, 0, len(levels))
	for id := range levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rules := make([]sarifRule, 0, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		rule := sarifRule{
			ID:            id,
			Name:          id,
			DefaultConfig: sarifRuleDefaultConfig{Level: levels[id]},
		}
		if id == ruleIDParseError {
			rule.ShortDescription = sarifMessage{Text: "The file could not be parsed."}
		} else if r, ok := meta[id]; ok && r != nil {
			rule.ShortDescription = sarifMessage{Text: r.Meta.Docs.Description}
			rule.HelpURI = r.Meta.Docs.URL
		}
		rules = append(rules, rule)
		index[id] = i
	}
	return rules, index
}

func sarifLevel(sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}
