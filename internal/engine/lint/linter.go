package lint

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hooklint/internal/core/errors"
	"hooklint/internal/engine/parser"
	"hooklint/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxPasses bounds the verify/fix loop.
const DefaultMaxPasses = 10

// SourceParser turns file content into a syntax tree. *parser.Parser
// satisfies it.
type SourceParser interface {
	Parse(path string, content []byte) (*parser.Tree, error)
}

type activeRule struct {
	rule     *Rule
	severity Severity
}

type Linter struct {
	parser    SourceParser
	rules     []activeRule
	maxPasses int
}

// FixResult is the outcome of VerifyAndFix. Messages are the problems left
// in Output after the last pass.
type FixResult struct {
	Output   []byte
	Fixed    bool
	Messages []Message
	Passes   int
	Applied  map[string]int
}

// NewLinter enables rules by settings. Rules without a setting run at
// error severity when recommended and stay off otherwise. A setting that
// names an unknown rule is a validation error.
func NewLinter(p SourceParser, rules map[string]*Rule, settings map[string]Severity) (*Linter, error) {
	if p == nil {
		return nil, errors.New(errors.CodeValidationError, "linter requires a parser")
	}
	for name := range settings {
		if _, ok := rules[name]; !ok {
			return nil, errors.AddContext(
				errors.Newf(errors.CodeValidationError, "unknown rule %q", name),
				errors.CtxRule, name,
			)
		}
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	l := &Linter{parser: p, maxPasses: DefaultMaxPasses}
	for _, name := range names {
		rule := rules[name]
		if rule == nil || rule.Create == nil {
			return nil, errors.AddContext(
				errors.Newf(errors.CodeValidationError, "rule %q has no create function", name),
				errors.CtxRule, name,
			)
		}
		sev, ok := settings[name]
		if !ok {
			sev = SeverityOff
			if rule.Meta.Docs.Recommended {
				sev = SeverityError
			}
		}
		if sev == SeverityOff {
			continue
		}
		// Registry keys win over the descriptor name so config and output agree.
		named := *rule
		named.Name = name
		l.rules = append(l.rules, activeRule{rule: &named, severity: sev})
	}
	return l, nil
}

func (l *Linter) SetMaxPasses(n int) {
	if n <= 0 {
		n = DefaultMaxPasses
	}
	l.maxPasses = n
}

// ActiveRules lists enabled rules with their effective severity.
func (l *Linter) ActiveRules() map[string]Severity {
	out := make(map[string]Severity, len(l.rules))
	for _, ar := range l.rules {
		out[ar.rule.Name] = ar.severity
	}
	return out
}

// Verify lints one file. Syntax errors produce a single fatal message and
// no rule runs. Unsupported paths and rule failures are returned as errors.
func (l *Linter) Verify(ctx context.Context, path string, src []byte) ([]Message, error) {
	ctx, span := observability.Tracer.Start(ctx, "lint.Verify",
		trace.WithAttributes(attribute.String("path", path)),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := l.parser.Parse(path, src)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer tree.Close()

	if syntaxErr, bad := tree.FirstSyntaxError(); bad {
		observability.ParseErrorsTotal.WithLabelValues(tree.Language).Inc()
		return []Message{{
			Severity: SeverityError,
			Message:  "Parsing error: " + syntaxErr.Message,
			Line:     syntaxErr.Line,
			Column:   syntaxErr.Column,
			Fatal:    true,
		}}, nil
	}

	source := &SourceCode{Text: src}
	w := newWalker(src)
	contexts := make([]*Context, 0, len(l.rules))
	for _, ar := range l.rules {
		rc := newContext(ar.rule, ar.severity, path, source)
		visitors, err := createVisitors(rc)
		if err != nil {
			span.RecordError(err)
			return nil, errors.AddContext(err, errors.CtxPath, path)
		}
		w.register(rc, visitors)
		contexts = append(contexts, rc)
	}

	w.Walk(tree.Root())

	var msgs []Message
	for _, rc := range contexts {
		if rc.err != nil {
			span.RecordError(rc.err)
			return nil, errors.AddContext(rc.err, errors.CtxPath, path)
		}
		msgs = append(msgs, rc.messages...)
	}

	msgs = parseDirectives(w.comments, src).filter(msgs)
	sortMessages(msgs)
	span.SetAttributes(attribute.Int("messages", len(msgs)))
	return msgs, nil
}

func createVisitors(rc *Context) (visitors Visitors, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.AddContext(
				errors.New(errors.CodeRuleError, fmt.Sprintf("rule create panicked: %v", r)),
				errors.CtxRule, rc.rule.Name,
			)
		}
	}()
	return rc.rule.Create(rc), nil
}

// VerifyAndFix re-lints after every round of fixes until the text stops
// changing or the pass limit is reached. A fatal parse message stops the
// loop.
func (l *Linter) VerifyAndFix(ctx context.Context, path string, src []byte) (FixResult, error) {
	start := time.Now()
	defer func() {
		observability.LintDuration.Observe(time.Since(start).Seconds())
	}()

	result := FixResult{Applied: make(map[string]int)}
	text := src

	var (
		msgs    []Message
		outcome FixOutcome
		err     error
	)
	for {
		result.Passes++
		msgs, err = l.Verify(ctx, path, text)
		if err != nil {
			return FixResult{}, err
		}
		outcome = ApplyFixes(text, msgs)
		if hasFatal(msgs) {
			outcome.Fixed = false
			outcome.Remaining = msgs
			break
		}
		if outcome.Fixed {
			result.Fixed = true
			text = outcome.Output
			for rule, n := range outcome.AppliedByRule {
				result.Applied[rule] += n
			}
		}
		if !outcome.Fixed || result.Passes >= l.maxPasses {
			break
		}
	}

	result.Messages = outcome.Remaining
	if outcome.Fixed {
		msgs, err = l.Verify(ctx, path, text)
		if err != nil {
			return FixResult{}, err
		}
		result.Messages = msgs
	}
	result.Output = text
	return result, nil
}

func hasFatal(msgs []Message) bool {
	for _, m := range msgs {
		if m.Fatal {
			return true
		}
	}
	return false
}

// Counts returns the number of error and warning messages.
func Counts(msgs []Message) (errorCount, warningCount int) {
	for _, m := range msgs {
		switch m.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarn:
			warningCount++
		}
	}
	return errorCount, warningCount
}
