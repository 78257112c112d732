// Package report renders a metric catalog as a static reference page.
// Output is deterministic: an unchanged catalog always renders to
// byte-identical text, so generated pages can be checked in and diffed.
package report

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
	"text/template"

	"github.com/metricdocs/metricdocs/internal/catalog"
)

// Format selects the output syntax of the rendered page.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: markdown, html)", s)
	}
}

// Options carry run metadata into the rendered page.
type Options struct {
	// Project names the project the descriptors came from; shown in the
	// page intro when set.
	Project string

	// TypePrefix is the prefix filter used during the fetch, if any.
	// A non-empty value puts a visible restriction note near the top of
	// the page.
	TypePrefix string
}

// Renderer writes the reference page to Out. Warnings (such as labels
// without descriptions) go to Diag and are never mixed into the page.
type Renderer struct {
	Out    io.Writer
	Diag   io.Writer
	Format Format
}

type pageData struct {
	Project    string
	TypePrefix string
}

const markdownPrefix = `<!--
    CAUTION: THIS IS A GENERATED FILE.
    Do not edit this page by hand. It is produced by metricdocs and your
    changes will be overwritten the next time it is generated.
-->

# Metrics list

This page lists the metric types available for monitoring{{if .Project}} in project ` + "`{{.Project}}`" + `{{end}}, grouped by provider and service.
{{if .TypePrefix}}
**Note:** this list is restricted to metric types starting with ` + "`{{.TypePrefix}}`" + `.
{{end}}`

const markdownSuffix = `
<!-- End of generated metrics list. -->
`

const htmlPrefix = `<!DOCTYPE html>
<!--
    CAUTION: THIS IS A GENERATED FILE.
    Do not edit this page by hand. It is produced by metricdocs and your
    changes will be overwritten the next time it is generated.
-->
<html>
<head><title>Metrics list</title></head>
<body>
<h1>Metrics list</h1>
<p>This page lists the metric types available for monitoring{{if .Project}} in project <code>{{.Project}}</code>{{end}}, grouped by provider and service.</p>
{{if .TypePrefix}}<p><strong>Note:</strong> this list is restricted to metric types starting with <code>{{.TypePrefix}}</code>.</p>
{{end}}`

const htmlSuffix = `</body>
</html>
`

var (
	markdownPrefixTmpl = template.Must(template.New("md-prefix").Parse(markdownPrefix))
	markdownSuffixTmpl = template.Must(template.New("md-suffix").Parse(markdownSuffix))
	htmlPrefixTmpl     = template.Must(template.New("html-prefix").Parse(htmlPrefix))
	htmlSuffixTmpl     = template.Must(template.New("html-suffix").Parse(htmlSuffix))
)

// Render walks the catalog in sorted order (groups, then services, then
// metric paths, all lexicographic) and writes the page. An empty catalog
// produces only the page wrapper.
func (r *Renderer) Render(cat *catalog.Catalog, opts Options) error {
	diag := r.Diag
	if diag == nil {
		diag = io.Discard
	}
	format := r.Format
	if format == "" {
		format = FormatMarkdown
	}

	prefixTmpl, suffixTmpl := markdownPrefixTmpl, markdownSuffixTmpl
	if format == FormatHTML {
		prefixTmpl, suffixTmpl = htmlPrefixTmpl, htmlSuffixTmpl
	}

	data := pageData{Project: opts.Project, TypePrefix: opts.TypePrefix}
	if format == FormatHTML {
		data.Project = html.EscapeString(data.Project)
		data.TypePrefix = html.EscapeString(data.TypePrefix)
	}

	w := bufio.NewWriter(r.Out)

	if err := prefixTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page prefix: %w", err)
	}

	for _, group := range cat.Groups() {
		title, description, err := catalog.GroupInfo(group)
		if err != nil {
			return fmt.Errorf("render group heading: %w", err)
		}
		writeGroupHeading(w, format, group, title, description)

		for _, service := range cat.Services(group) {
			key := catalog.Key{Group: group, Service: service}

			prefix, err := catalog.CanonicalPrefix(group, service)
			if err != nil {
				return fmt.Errorf("render service heading: %w", err)
			}
			writeServiceHeading(w, format, group, service, prefix)

			for _, path := range cat.Paths(key) {
				d, ok := cat.Metric(key, path)
				if !ok {
					continue
				}
				writeMetricRow(w, diag, format, path, d)
			}

			if format == FormatHTML {
				fmt.Fprintln(w, "</table>")
			}
		}
	}

	if err := suffixTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page suffix: %w", err)
	}

	return w.Flush()
}

func writeGroupHeading(w io.Writer, format Format, group, title, description string) {
	if format == FormatHTML {
		fmt.Fprintf(w, "<h2 id=%q>%s</h2>\n", group, html.EscapeString(title))
		fmt.Fprintf(w, "<p>%s</p>\n", html.EscapeString(description))
		return
	}
	fmt.Fprintf(w, "\n## %s {:#%s}\n", title, group)
	fmt.Fprintf(w, "\n%s\n", description)
}

func writeServiceHeading(w io.Writer, format Format, group, service, prefix string) {
	// Bare custom metrics have an empty service; headings and anchors
	// use "none" in that case.
	serviceTag := service
	if serviceTag == "" {
		serviceTag = "none"
	}

	if format == FormatHTML {
		fmt.Fprintf(w, "<h3 id=%q><code>%s</code></h3>\n", group+"-"+serviceTag, html.EscapeString(serviceTag))
		fmt.Fprintf(w, "<p>Metrics prefixed with <code>%s/</code>:</p>\n", html.EscapeString(prefix))
		fmt.Fprintln(w, "<table>")
		fmt.Fprintln(w, "<tr><th>Metric type</th><th>Name</th><th>Kind, Type, Unit</th><th>Description, Labels</th></tr>")
		return
	}
	fmt.Fprintf(w, "\n### `%s` {:#%s-%s}\n", serviceTag, group, serviceTag)
	fmt.Fprintf(w, "\nMetrics prefixed with `%s/`:\n", prefix)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metric type | Name | Kind, Type, Unit | Description, Labels")
	fmt.Fprintln(w, "----------- | ---- | ---------------- | -------------------")
}

func writeMetricRow(w io.Writer, diag io.Writer, format Format, path string, d catalog.Descriptor) {
	kind := kindCell(d)
	detail := detailCell(diag, format, d)

	if format == FormatHTML {
		fmt.Fprintf(w, "<tr><td><code>%s</code></td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(path), html.EscapeString(d.DisplayName), html.EscapeString(kind), detail)
		return
	}
	fmt.Fprintf(w, "`%s` | %s | %s | %s\n", path, escapeCell(format, d.DisplayName), kind, detail)
}

// kindCell combines metric kind, value type, and unit into one cell.
func kindCell(d catalog.Descriptor) string {
	cell := d.MetricKind + ", " + d.ValueType
	if d.Unit != "" {
		cell += ", " + d.Unit
	}
	return cell
}

// detailCell combines the metric description with its labels, in source
// order. Labels without a description are reported on diag but still
// rendered.
func detailCell(diag io.Writer, format Format, d catalog.Descriptor) string {
	var parts []string

	if d.Description != "" {
		parts = append(parts, withPeriod(escapeCell(format, d.Description)))
	}

	for _, label := range d.Labels {
		item := codeSpan(format, label.Key)
		if label.ValueType != "" && label.ValueType != "STRING" {
			item += " (" + label.ValueType + ")"
		}
		if label.Description == "" {
			fmt.Fprintf(diag, "Warning: metric %s label %q has no description\n", d.Type, label.Key)
			item += "."
		} else {
			item += ": " + withPeriod(escapeCell(format, label.Description))
		}
		parts = append(parts, item)
	}

	return strings.Join(parts, " ")
}

func codeSpan(format Format, s string) string {
	if format == FormatHTML {
		return "<code>" + html.EscapeString(s) + "</code>"
	}
	return "`" + s + "`"
}

// escapeCell flattens text into one line and escapes whatever would
// break a table cell in the given format.
func escapeCell(format Format, s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if format == FormatHTML {
		return html.EscapeString(s)
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

// withPeriod appends a trailing period to non-empty text missing one.
func withPeriod(s string) string {
	if s != "" && !strings.HasSuffix(s, ".") {
		return s + "."
	}
	return s
}
