// Package report renders power-estimation results as markdown and HTML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"procova/app"
	"procova/domain/design"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// keyOrder fixes the display order of result-vector entries
var keyOrder = map[string]int{
	design.KeySigma:   0,
	design.KeyRho:     1,
	design.KeyR2:      2,
	design.KeyPowerNC: 3,
	design.KeyPowerGS: 4,
}

// Markdown renders a single estimation as a markdown report
func Markdown(req app.EstimationRequest, result design.ResultVector) []byte {
	var b strings.Builder
	b.WriteString("# Power estimation\n\n")
	writeDesign(&b, req)
	b.WriteString("\n## Results\n\n")
	b.WriteString("| quantity | value |\n|---|---|\n")
	for _, key := range orderedKeys(result) {
		fmt.Fprintf(&b, "| %s | %.6f |\n", key, result[key])
	}
	return []byte(b.String())
}

// SweepMarkdown renders a sample-size sweep as a markdown power curve
func SweepMarkdown(req app.EstimationRequest, points []app.SweepPoint) []byte {
	var b strings.Builder
	b.WriteString("# Sample-size sweep\n\n")
	writeDesign(&b, req)
	b.WriteString("\n## Power curve\n\n")
	b.WriteString("| n | power_NC | power_GS |\n|---|---|---|\n")
	for _, pt := range points {
		fmt.Fprintf(&b, "| %d | %.6f | %.6f |\n", pt.N, pt.Result[design.KeyPowerNC], pt.Result[design.KeyPowerGS])
	}
	return []byte(b.String())
}

// HTML converts a markdown report to a standalone HTML document body
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func writeDesign(b *strings.Builder, req app.EstimationRequest) {
	fmt.Fprintf(b, "- outcome: `%s`\n", req.Outcome)
	fmt.Fprintf(b, "- treatment: `%s`\n", req.Treatment)
	if len(req.Covariates) > 0 {
		fmt.Fprintf(b, "- covariates: `%s` (interaction: %v)\n", strings.Join(req.Covariates, ", "), req.Interaction)
	}
	fmt.Fprintf(b, "- n=%d, r=%.2f, ATE=%.4f, margin=%.4f, alpha=%.4f\n",
		req.Design.N, req.Design.Ratio, req.Design.ATE, req.Design.Margin, req.Design.Alpha)
}

func orderedKeys(result design.ResultVector) []string {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := keyOrder[keys[i]]
		oj, jok := keyOrder[keys[j]]
		if iok && jok {
			return oi < oj
		}
		if iok != jok {
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}
