package diff

import (
	"fmt"
	"time"
)

// DiffResult represents the complete result of comparing two compiled documents
type DiffResult struct {
	Changes        []Change           `json:"changes"`
	Classification ChangeType         `json:"classification"`
	Metadata       DiffMetadata       `json:"metadata"`
	Performance    PerformanceMetrics `json:"-"`
}

// DiffMetadata contains metadata about the diff operation
type DiffMetadata struct {
	Timestamp       time.Time `json:"-"`
	OldHTMLSize     int       `json:"old_html_size"`
	NewHTMLSize     int       `json:"new_html_size"`
	OldElementCount int       `json:"old_element_count"`
	NewElementCount int       `json:"new_element_count"`
	ChangeCount     int       `json:"change_count"`
	Complexity      string    `json:"complexity"`
}

// PerformanceMetrics tracks performance of the diff operation
type PerformanceMetrics struct {
	ParseTime   time.Duration
	CompareTime time.Duration
	TotalTime   time.Duration
}

// HTMLDiffer is the main entry point for HTML diffing functionality
type HTMLDiffer struct {
	parser     *Parser
	comparator *Comparator
}

// NewHTMLDiffer creates a new HTML differ with all components
func NewHTMLDiffer() *HTMLDiffer {
	return &HTMLDiffer{
		parser:     NewParser(),
		comparator: NewComparator(),
	}
}

// Diff parses both documents once and compares the trees.
func (hd *HTMLDiffer) Diff(oldHTML, newHTML string) (*DiffResult, error) {
	startTime := time.Now()
	var perf PerformanceMetrics

	oldTree, err := hd.parser.Parse(oldHTML)
	if err != nil {
		return nil, fmt.Errorf("old document: %w", err)
	}
	newTree, err := hd.parser.Parse(newHTML)
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}
	perf.ParseTime = time.Since(startTime)

	compareStart := time.Now()
	changes := hd.comparator.CompareTrees(oldTree, newTree)
	perf.CompareTime = time.Since(compareStart)
	perf.TotalTime = time.Since(startTime)

	return &DiffResult{
		Changes:        changes,
		Classification: ClassifyChanges(changes),
		Metadata: DiffMetadata{
			Timestamp:       startTime,
			OldHTMLSize:     len(oldHTML),
			NewHTMLSize:     len(newHTML),
			OldElementCount: oldTree.CountElements(),
			NewElementCount: newTree.CountElements(),
			ChangeCount:     len(changes),
			Complexity:      determineComplexity(changes),
		},
		Performance: perf,
	}, nil
}

// determineComplexity analyzes the overall complexity of changes
func determineComplexity(changes []Change) string {
	switch {
	case len(changes) == 0:
		return "none"
	case len(changes) <= 2:
		return "simple"
	case len(changes) <= 5:
		return "moderate"
	}
	return "complex"
}
