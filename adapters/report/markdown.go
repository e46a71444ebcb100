package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"neurosym/domain/experiment"
	"neurosym/domain/explanation"
)

// Renderer produces the human-readable artifacts of a batch: markdown
// summaries and their HTML renderings.
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// BatchSummary renders a markdown report over the finalized records of a
// batch.
func (r *Renderer) BatchSummary(name string, records []*experiment.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Experiment batch: %s\n\n", name)
	fmt.Fprintf(&b, "%d run(s)\n\n", len(records))

	for _, record := range records {
		fmt.Fprintf(&b, "## Run %s\n\n", record.RunID)
		fmt.Fprintf(&b, "- Status: **%s**\n", record.Status)
		if !record.Fingerprint.IsEmpty() {
			fmt.Fprintf(&b, "- Config fingerprint: `%s`\n", record.Fingerprint)
		}

		if len(record.Metrics) > 0 {
			b.WriteString("\n| Metric | Value |\n|---|---|\n")
			for _, name := range sortedMetricKeys(record.Metrics) {
				fmt.Fprintf(&b, "| %s | %.4f |\n", name, record.Metrics[name])
			}
		}
		if len(record.Warnings) > 0 {
			b.WriteString("\nWarnings:\n")
			for _, w := range record.Warnings {
				fmt.Fprintf(&b, "- %s\n", w)
			}
		}
		if len(record.Errors) > 0 {
			b.WriteString("\nErrors:\n")
			for _, e := range record.Errors {
				fmt.Fprintf(&b, "- %s\n", e)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Explanation renders one explanation as markdown
func (r *Renderer) Explanation(exp *explanation.Explanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Prediction: %s\n\n", exp.PredictedClass)
	fmt.Fprintf(&b, "Confidence %.4f, fusion weights neural=%.3f symbolic=%.3f\n\n",
		exp.Confidence, exp.NeuralWeight, exp.SymbolicWeight)

	b.WriteString("| Class | Neural | Symbolic | Fused |\n|---|---|---|---|\n")
	for i, class := range exp.Classes {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f |\n",
			class, exp.NeuralContribution[i], exp.SymbolicContribution[i],
			exp.NeuralContribution[i]+exp.SymbolicContribution[i])
	}

	if exp.SymbolicClass != "" {
		fmt.Fprintf(&b, "\nThe symbolic branch alone answers **%s**.\n", exp.SymbolicClass)
	}

	b.WriteString("\n## Reasoning\n\n")
	if exp.Trace == nil || len(exp.Trace.Entries) == 0 {
		b.WriteString("No rules were evaluated for this input.\n")
		return b.String()
	}
	for _, entry := range exp.Trace.Entries {
		switch entry.Outcome {
		case "fired":
			fmt.Fprintf(&b, "- `%s` asserted **%s** with confidence %.2f\n",
				entry.RuleID, entry.Class, entry.Confidence)
		case "rule_error":
			fmt.Fprintf(&b, "- `%s` failed: %s\n", entry.RuleID, entry.Note)
		default:
			fmt.Fprintf(&b, "- `%s` did not fire\n", entry.RuleID)
		}
	}
	return b.String()
}

// ToHTML renders markdown into a standalone HTML document
func (r *Renderer) ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.Render(doc, renderer)
}

func sortedMetricKeys(metrics map[string]float64) []string {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
