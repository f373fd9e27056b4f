package diff

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ChangeType groups changes by how much of the page they affect.
type ChangeType string

const (
	ChangeNone      ChangeType = "none"
	ChangeTextOnly  ChangeType = "text-only"
	ChangeAttribute ChangeType = "attribute"
	ChangeStructure ChangeType = "structure"
	ChangeComplex   ChangeType = "complex"
)

// Change is a single difference between two compiled documents.
type Change struct {
	Type        ChangeType `json:"type"`
	Path        string     `json:"path"`
	OldValue    string     `json:"old_value,omitempty"`
	NewValue    string     `json:"new_value,omitempty"`
	Description string     `json:"description"`
}

func (c Change) String() string {
	return fmt.Sprintf("%-9s %s: %s (%q -> %q)", c.Type, c.Path, c.Description, c.OldValue, c.NewValue)
}

// Comparator walks two trees built by Parser.
type Comparator struct {
	parser *Parser
}

// NewComparator creates a comparator
func NewComparator() *Comparator {
	return &Comparator{parser: NewParser()}
}

// Compare parses both documents and compares them.
func (c *Comparator) Compare(oldHTML, newHTML string) ([]Change, error) {
	oldTree, err := c.parser.Parse(oldHTML)
	if err != nil {
		return nil, fmt.Errorf("old document: %w", err)
	}
	newTree, err := c.parser.Parse(newHTML)
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}
	return c.CompareTrees(oldTree, newTree), nil
}

// CompareTrees compares two parsed documents. Children are matched by
// position.
func (c *Comparator) CompareTrees(oldTree, newTree *Node) []Change {
	var changes []Change
	c.compareNodes(oldTree, newTree, &changes)
	return changes
}

func (c *Comparator) compareNodes(oldNode, newNode *Node, changes *[]Change) {
	if oldNode.Type != newNode.Type || oldNode.Tag != newNode.Tag {
		*changes = append(*changes, Change{
			Type:        ChangeStructure,
			Path:        oldNode.Path(),
			OldValue:    describe(oldNode),
			NewValue:    describe(newNode),
			Description: "Node replaced",
		})
		return
	}

	if oldNode.Type == html.TextNode {
		if oldNode.Text != newNode.Text {
			*changes = append(*changes, Change{
				Type:        ChangeTextOnly,
				Path:        oldNode.Path(),
				OldValue:    oldNode.Text,
				NewValue:    newNode.Text,
				Description: "Text content changed",
			})
		}
		return
	}

	if oldNode.Type == html.ElementNode {
		path := oldNode.Path()
		compareTokens("ID", oldNode.IDs, newNode.IDs, fixedPath(path+"/@id"), changes)
		compareTokens("Class", oldNode.Classes, newNode.Classes, fixedPath(path+"/@class"), changes)
		compareTokens("Flag", oldNode.Flags, newNode.Flags, func(flag string) string {
			return path + "/@" + flag
		}, changes)
		compareMap(path+"/@style/", "Style property", oldNode.Style, newNode.Style, changes)
		compareMap(path+"/@", "Attribute", oldNode.Attrs, newNode.Attrs, changes)

		if oldNode.Unclosed != newNode.Unclosed {
			change := Change{Type: ChangeStructure, Path: path, Description: "End tag added"}
			if newNode.Unclosed {
				change.Description = "End tag removed"
			}
			change.OldValue, change.NewValue = closedState(oldNode), closedState(newNode)
			*changes = append(*changes, change)
		}
	}

	c.compareChildren(oldNode, newNode, changes)
}

func (c *Comparator) compareChildren(oldNode, newNode *Node, changes *[]Change) {
	oldChildren, newChildren := oldNode.Children, newNode.Children

	for i := 0; i < len(oldChildren) && i < len(newChildren); i++ {
		c.compareNodes(oldChildren[i], newChildren[i], changes)
	}

	if len(oldChildren) != len(newChildren) {
		path := oldNode.Path()
		if path == "" {
			path = "/"
		}
		*changes = append(*changes, Change{
			Type:        ChangeStructure,
			Path:        path,
			OldValue:    fmt.Sprintf("%d children", len(oldChildren)),
			NewValue:    fmt.Sprintf("%d children", len(newChildren)),
			Description: "Number of children changed",
		})
	}
}

// compareTokens reports tokens present on only one side. Order and
// repetition within the list are not significant.
func compareTokens(label string, oldTokens, newTokens []string, tokenPath func(string) string, changes *[]Change) {
	oldSet, newSet := tokenSet(oldTokens), tokenSet(newTokens)

	for _, token := range sortedKeys(oldSet) {
		if !newSet[token] {
			*changes = append(*changes, Change{
				Type:        ChangeAttribute,
				Path:        tokenPath(token),
				OldValue:    token,
				Description: label + " removed",
			})
		}
	}
	for _, token := range sortedKeys(newSet) {
		if !oldSet[token] {
			*changes = append(*changes, Change{
				Type:        ChangeAttribute,
				Path:        tokenPath(token),
				NewValue:    token,
				Description: label + " added",
			})
		}
	}
}

// compareMap reports keys added, removed or changed, in key order.
func compareMap(prefix, label string, oldValues, newValues map[string]string, changes *[]Change) {
	keys := make(map[string]bool, len(oldValues)+len(newValues))
	for k := range oldValues {
		keys[k] = true
	}
	for k := range newValues {
		keys[k] = true
	}

	for _, key := range sortedKeys(keys) {
		oldValue, inOld := oldValues[key]
		newValue, inNew := newValues[key]
		change := Change{Type: ChangeAttribute, Path: prefix + key, OldValue: oldValue, NewValue: newValue}
		switch {
		case !inOld:
			change.Description = label + " added"
		case !inNew:
			change.Description = label + " removed"
		case oldValue != newValue:
			change.Description = label + " changed"
		default:
			continue
		}
		*changes = append(*changes, change)
	}
}

func fixedPath(path string) func(string) string {
	return func(string) string { return path }
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func closedState(n *Node) string {
	if n.Unclosed {
		return "<" + n.Tag + ">"
	}
	return "<" + n.Tag + ">...</" + n.Tag + ">"
}

func describe(n *Node) string {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Text)
	case html.ElementNode:
		return "<" + n.Tag + ">"
	}
	return n.Tag
}

// ClassifyChanges returns the single type shared by all changes, ChangeNone
// when there are none and ChangeComplex when they are mixed.
func ClassifyChanges(changes []Change) ChangeType {
	if len(changes) == 0 {
		return ChangeNone
	}
	kind := changes[0].Type
	for _, c := range changes[1:] {
		if c.Type != kind {
			return ChangeComplex
		}
	}
	return kind
}
