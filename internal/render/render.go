// Package render serializes an element forest into indented HTML.
package render

import (
	"io"
	"strings"

	"github.com/livefir/webflow/internal/ast"
)

// DefaultIndent is the indentation unit used by Render.
const DefaultIndent = "\t"

// Options controls HTML serialization.
type Options struct {
	// Indent is written once per nesting level. Empty means DefaultIndent.
	Indent string
}

// Render serializes forest with the default options.
func Render(forest []*ast.Element) string {
	return Options{}.Render(forest)
}

// Render serializes forest. Top-level elements are separated by a newline;
// nothing follows the last one.
func (o Options) Render(forest []*ast.Element) string {
	var sb strings.Builder
	o.Stream(&sb, forest)
	return sb.String()
}

// Stream writes the rendering of forest to w.
func (o Options) Stream(w io.StringWriter, forest []*ast.Element) {
	r := renderer{w: w, indent: o.Indent}
	if r.indent == "" {
		r.indent = DefaultIndent
	}
	for i, el := range forest {
		if i > 0 {
			r.w.WriteString("\n")
		}
		r.element(el, 0)
	}
}

type renderer struct {
	w      io.StringWriter
	indent string
}

func (r *renderer) pad(depth int) {
	for i := 0; i < depth; i++ {
		r.w.WriteString(r.indent)
	}
}

func (r *renderer) element(el *ast.Element, depth int) {
	r.pad(depth)
	r.w.WriteString("<")
	r.w.WriteString(el.TagName)
	r.w.WriteString(Attributes(el))
	r.w.WriteString(">\n")

	if el.Content != "" {
		r.pad(depth + 1)
		r.w.WriteString(el.Content)
		r.w.WriteString("\n")
	}

	for _, c := range el.Children {
		r.element(c, depth+1)
	}

	// Elements with neither content nor children stay open (void rendering).
	if el.Content != "" || len(el.Children) > 0 || !el.Terminated {
		r.pad(depth)
		r.w.WriteString("</")
		r.w.WriteString(el.TagName)
		r.w.WriteString(">\n")
	}
}

// Attributes returns the attribute string of el in the fixed order
// style, dataset, id, class, props. Values are written verbatim.
func Attributes(el *ast.Element) string {
	var sb strings.Builder
	style(&sb, el.Style)
	dataset(&sb, el.Datasets)
	spaceList(&sb, "id", el.IDs)
	spaceList(&sb, "class", el.Classes)
	props(&sb, el.Props)
	return sb.String()
}

func style(sb *strings.Builder, decls []ast.KeyValue) {
	if len(decls) == 0 {
		return
	}
	sb.WriteString(` style="`)
	for i, d := range decls {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(d.Key)
		sb.WriteString(":")
		sb.WriteString(d.Value)
	}
	sb.WriteString(`"`)
}

func dataset(sb *strings.Builder, entries []ast.KeyValue) {
	for _, d := range entries {
		sb.WriteString(" data-")
		sb.WriteString(d.Key)
		sb.WriteString(`="`)
		sb.WriteString(d.Value)
		sb.WriteString(`"`)
	}
}

// spaceList writes ` name="a b "`; every item is followed by a space.
func spaceList(sb *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(`="`)
	for _, it := range items {
		sb.WriteString(it)
		sb.WriteString(" ")
	}
	sb.WriteString(`"`)
}

func props(sb *strings.Builder, entries []ast.KeyValue) {
	for _, p := range entries {
		sb.WriteString(" ")
		sb.WriteString(p.Key)
		if p.Key == "defer" {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(p.Value)
		sb.WriteString(`"`)
	}
}
