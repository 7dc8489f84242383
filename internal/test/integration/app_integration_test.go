package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hooklint/internal/core/app"
	"hooklint/internal/core/config"
	"hooklint/internal/core/ports"
	"hooklint/internal/data/history"
	"hooklint/internal/plugin"
	"hooklint/internal/ui/report/formats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectConfig = `version = 1

[rules]
enforce-refs-end-with-ref = ["error"]

[exclude]
dirs = ["node_modules", "generated"]
files = ["*.stories.tsx"]

[db]
project = "widgets"
retention = 10
`

func createProject(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		config.DefaultConfigFile:    projectConfig,
		"src/Input.tsx":             "export function Input() {\n  const input = useRef<HTMLInputElement>(null);\n  return <input ref={input} />;\n}\n",
		"src/Box.jsx":               "const boxRef = useRef(null);\n",
		"src/legacy.js":             "const legacy = useRef(); // hooklint-disable-line enforce-refs-end-with-ref\n",
		"src/Input.stories.tsx":     "const story = useRef(null);\n",
		"generated/api.ts":          "const client = useRef(null);\n",
		"node_modules/pkg/index.js": "const dep = useRef(null);\n",
		"src/hooks/useFocus.ts":     "export const useFocus = () => {\n  const el = useRef(null), timer = React.useRef(0);\n  return el;\n};\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFullPipelineIntegration(t *testing.T) {
	root := t.TempDir()
	createProject(t, root)

	cfg, err := config.Load(filepath.Join(root, config.DefaultConfigFile))
	require.NoError(t, err)
	cfg.Targets = []string{root}

	paths, err := config.ResolvePaths(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, root, paths.ProjectRoot)

	store, err := history.Open(paths.DBPath, cfg.DB.BusyTimeout)
	require.NoError(t, err)
	defer store.Close()

	a, err := app.New(cfg, app.Options{History: store, ProjectKey: config.ProjectName(cfg, paths)})
	require.NoError(t, err)

	ctx := context.Background()
	result, err := a.Run(ctx, ports.RunRequest{Mode: ports.ModeFixDryRun})
	require.NoError(t, err)

	var linted []string
	for _, f := range result.Files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		linted = append(linted, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"src/Box.jsx",
		"src/Input.tsx",
		"src/hooks/useFocus.ts",
		"src/legacy.js",
	}, linted)

	// Input.tsx and useFocus.ts each declare one ref without the suffix.
	// Member calls like React.useRef are not matched.
	assert.Equal(t, 2, result.FixedFiles)
	assert.Equal(t, 0, result.ErrorCount)

	byPath := make(map[string]ports.FileResult)
	for _, f := range result.Files {
		byPath[filepath.ToSlash(strings.TrimPrefix(f.Path, root+string(filepath.Separator)))] = f
	}
	assert.Equal(t,
		"export function Input() {\n  const inputRef = useRef<HTMLInputElement>(null);\n  return <input ref={input} />;\n}\n",
		string(byPath["src/Input.tsx"].Output))
	assert.Equal(t,
		"export const useFocus = () => {\n  const elRef = useRef(null), timer = React.useRef(0);\n  return el;\n};\n",
		string(byPath["src/hooks/useFocus.ts"].Output))

	// Dry run never writes.
	content, err := os.ReadFile(filepath.Join(root, "src", "Input.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "const input = useRef")

	diff, err := formats.Diff(result, formats.Options{ProjectRoot: root, Rules: plugin.Rules})
	require.NoError(t, err)
	assert.Contains(t, string(diff), "--- a/src/Input.tsx")
	assert.Contains(t, string(diff), "+  const inputRef = useRef<HTMLInputElement>(null);")

	// A plain lint run reports what the dry run would have fixed.
	lintResult, err := a.Run(ctx, ports.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, lintResult.ErrorCount)
	assert.Equal(t, 2, lintResult.FixableErrorCount)
	assert.Equal(t, 2, lintResult.RuleCounts["enforce-refs-end-with-ref"])

	sarif, err := formats.GenerateSARIF(lintResult, formats.Options{ProjectRoot: root, Rules: plugin.Rules})
	require.NoError(t, err)
	var doc struct {
		Runs []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(sarif, &doc))
	require.Len(t, doc.Runs, 1)
	assert.Len(t, doc.Runs[0].Results, 2)

	report, err := a.TrendReport(time.Time{}, 0, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "widgets", report.ProjectKey)
	require.Equal(t, 2, report.RunCount)
	assert.Equal(t, "fix-dry-run", report.Points[0].Mode)
	assert.Equal(t, 2, report.Points[1].ErrorCount)
}

func TestFixModeConvergesOnDisk(t *testing.T) {
	root := t.TempDir()
	createProject(t, root)

	cfg, err := config.Load(filepath.Join(root, config.DefaultConfigFile))
	require.NoError(t, err)
	cfg.Targets = []string{filepath.Join(root, "src")}

	a, err := app.New(cfg, app.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	first, err := a.Run(ctx, ports.RunRequest{Mode: ports.ModeFix})
	require.NoError(t, err)
	assert.Equal(t, 2, first.FixedFiles)

	second, err := a.Run(ctx, ports.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.ErrorCount)
	assert.Equal(t, 0, second.FixedFiles)

	// References to the old name are left alone; only the declaration is renamed.
	content, err := os.ReadFile(filepath.Join(root, "src", "Input.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "const inputRef = useRef<HTMLInputElement>(null);")
	assert.Contains(t, string(content), "<input ref={input} />")
}
