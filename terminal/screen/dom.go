package screen

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	screenTag   = "x-screen"
	rowTag      = "x-row"
	promptClass = "prompt"
)

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// setText replaces the content of n with text. Text nodes are updated in
// place.
func setText(n *html.Node, text string) {
	if n.Type == html.TextNode {
		n.Data = text
		return
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	// strings.Builder never fails to write.
	_ = html.Render(&b, n)
	return b.String()
}

func innerHTML(n *html.Node) string {
	if n.Type == html.TextNode {
		return html.EscapeString(n.Data)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// wrapText replaces the text node n with a span holding the same text and
// returns the span.
func wrapText(n *html.Node) *html.Node {
	span := newElement(atom.Span)
	span.AppendChild(&html.Node{Type: html.TextNode, Data: n.Data})
	if parent := n.Parent; parent != nil {
		parent.InsertBefore(span, n)
		parent.RemoveChild(n)
	}
	return span
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// Element is an element of the rendered screen, as seen by pointer event
// handlers. A nil *Element is valid and behaves like a non-anchor node.
type Element struct {
	node *html.Node
	row  *Row
}

func (e *Element) Tag() string {
	if e == nil || e.node == nil || e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

func (e *Element) Attr(name string) string {
	if e == nil || e.node == nil {
		return ""
	}
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

// Text returns the text content of the element.
func (e *Element) Text() string {
	if e == nil || e.node == nil {
		return ""
	}
	return textContent(e.node)
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(strings.Fields(e.Attr("class")), class)
}

func (e *Element) AddClass(class string) {
	if e == nil || e.HasClass(class) {
		return
	}
	e.setClasses(append(strings.Fields(e.Attr("class")), class))
}

func (e *Element) RemoveClass(class string) {
	if e == nil || !e.HasClass(class) {
		return
	}
	classes := slices.DeleteFunc(strings.Fields(e.Attr("class")),
		func(c string) bool { return c == class })
	e.setClasses(classes)
}

func (e *Element) setClasses(classes []string) {
	val := strings.Join(classes, " ")
	attrs := e.node.Attr[:0]
	found := false
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == "class" {
			if val == "" {
				continue
			}
			a.Val = val
			found = true
		}
		attrs = append(attrs, a)
	}
	if !found && val != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: val})
	}
	e.node.Attr = attrs
	if e.row != nil {
		e.row.touch()
	}
}
