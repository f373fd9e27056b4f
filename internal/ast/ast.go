package ast

// KeyValue is one entry of a props, dataset or styles block. Keys are not
// unique; duplicates keep their source order.
type KeyValue struct {
	Key   string
	Value string
}

// Element is a parsed tag with its attribute sets and children.
type Element struct {
	TagName  string
	Props    []KeyValue
	Datasets []KeyValue
	Style    []KeyValue
	Classes  []string
	IDs      []string
	Content  string
	// Terminated is set once the closing ';' of the element has been consumed.
	Terminated bool
	Children   []*Element
}

// Walk calls fn for e and each of its descendants in document order.
// Returning false from fn skips the node's children.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(*Element, int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of elements in the forest, descendants included.
func Count(forest []*Element) int {
	n := 0
	for _, e := range forest {
		e.Walk(func(*Element, int) bool {
			n++
			return true
		})
	}
	return n
}
