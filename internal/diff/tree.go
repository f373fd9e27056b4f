package diff

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an element or text run of compiled webflow output.
//
// The attribute lists the renderer produces are kept in their decoded form:
// id and class values become token lists, style becomes declarations and
// attributes written without a value (such as defer) become flags.
type Node struct {
	Type html.NodeType
	Tag  string
	Text string

	IDs     []string
	Classes []string
	Style   map[string]string
	Flags   []string
	Attrs   map[string]string

	// Unclosed is set for elements that have no end tag. The compiler
	// writes those for elements without content or children.
	Unclosed bool

	Children []*Node
	Parent   *Node
}

const documentTag = "#document"

// Parser rebuilds the element forest from compiled HTML.
type Parser struct{}

// NewParser creates a parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes htmlContent and returns a virtual root whose children are
// the top-level elements.
//
// Nesting follows the compiler rather than a browser: a start tag that is
// never closed is a leaf, and whatever was nested under it while it looked
// open is moved back to its parent. Raw-text tags such as script get no
// special treatment since the compiler does not write them differently.
func (p *Parser) Parse(htmlContent string) (*Node, error) {
	root := &Node{Type: html.DocumentNode, Tag: documentTag}
	stack := []*Node{root}

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to tokenize HTML: %w", err)
			}
			for len(stack) > 1 {
				stack = popUnclosed(stack)
			}
			return root, nil

		case html.StartTagToken:
			el := newElement(z.Token())
			stack[len(stack)-1].appendChild(el)
			stack = append(stack, el)
			z.NextIsNotRawText()

		case html.SelfClosingTagToken:
			stack[len(stack)-1].appendChild(newElement(z.Token()))

		case html.EndTagToken:
			name, _ := z.TagName()
			stack = closeElement(stack, string(name))

		case html.TextToken:
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text != "" {
				stack[len(stack)-1].appendChild(&Node{Type: html.TextNode, Text: text})
			}
		}
	}
}

// closeElement pops up to the nearest open element named tag. Elements
// above it were never closed. An end tag with no open element is ignored.
func closeElement(stack []*Node, tag string) []*Node {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].Tag != tag {
			continue
		}
		for len(stack) > i+1 {
			stack = popUnclosed(stack)
		}
		stack[i].Unclosed = false
		return stack[:i]
	}
	return stack
}

// popUnclosed pops the top element and hands its children to its parent,
// right after it.
func popUnclosed(stack []*Node) []*Node {
	el := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(el.Children) == 0 {
		return stack
	}

	parent := el.Parent
	at := len(parent.Children)
	for i, c := range parent.Children {
		if c == el {
			at = i + 1
			break
		}
	}

	moved := el.Children
	el.Children = nil
	for _, c := range moved {
		c.Parent = parent
	}

	children := make([]*Node, 0, len(parent.Children)+len(moved))
	children = append(children, parent.Children[:at]...)
	children = append(children, moved...)
	children = append(children, parent.Children[at:]...)
	parent.Children = children
	return stack
}

func newElement(tok html.Token) *Node {
	el := &Node{
		Type:     html.ElementNode,
		Tag:      tok.Data,
		Style:    make(map[string]string),
		Attrs:    make(map[string]string),
		Unclosed: true,
	}

	seen := make(map[string]bool, len(tok.Attr))
	for _, attr := range tok.Attr {
		// Browsers keep the first of duplicate attributes.
		if seen[attr.Key] {
			continue
		}
		seen[attr.Key] = true

		switch {
		case attr.Key == "id":
			el.IDs = strings.Fields(attr.Val)
		case attr.Key == "class":
			el.Classes = strings.Fields(attr.Val)
		case attr.Key == "style":
			el.Style = parseStyle(attr.Val)
		case attr.Val == "" && !strings.HasPrefix(attr.Key, "data-"):
			el.Flags = append(el.Flags, attr.Key)
		default:
			el.Attrs[attr.Key] = attr.Val
		}
	}
	sort.Strings(el.Flags)
	return el
}

// parseStyle splits "k:v;k:v" declarations. Later declarations of the same
// property win, as in CSS.
func parseStyle(style string) map[string]string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		prop = strings.TrimSpace(prop)
		if !ok || prop == "" {
			continue
		}
		decls[prop] = strings.TrimSpace(value)
	}
	return decls
}

func (n *Node) appendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Path addresses n from the root, e.g. "/div/p[2]" for the second p child
// of a top-level div.
func (n *Node) Path() string {
	if n.Parent == nil {
		return ""
	}

	parentPath := n.Parent.Path()
	if n.Type == html.TextNode {
		return parentPath + "/text()"
	}

	position := 1
	for _, sibling := range n.Parent.Children {
		if sibling == n {
			break
		}
		if sibling.Type == html.ElementNode && sibling.Tag == n.Tag {
			position++
		}
	}
	if position > 1 {
		return fmt.Sprintf("%s/%s[%d]", parentPath, n.Tag, position)
	}
	return parentPath + "/" + n.Tag
}

// CountElements returns the number of elements below n, excluding the
// virtual root.
func (n *Node) CountElements() int {
	count := 0
	if n.Type == html.ElementNode {
		count++
	}
	for _, c := range n.Children {
		count += c.CountElements()
	}
	return count
}

// CountBrowserElements parses htmlContent the way a browser parses it inside
// <body> and counts the resulting elements. Unclosed non-void tags swallow
// what follows them, and closed formatting tags may be reopened, so the
// count can differ from the compiled element count.
func CountBrowserElements(htmlContent string) (int, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return count, nil
}
