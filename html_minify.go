package webflow

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepEndTags:         true,
			KeepQuotes:          true,
			KeepDefaultAttrVals: true,
		})
	})
	return minifier
}

// minifyHTML collapses the indentation of rendered HTML. Unclosed void-style
// elements are left unclosed and end tags are kept so the element structure
// survives. On failure the input is returned unchanged.
func minifyHTML(htmlContent string) string {
	if htmlContent == "" {
		return htmlContent
	}
	minified, err := getMinifier().String("text/html", htmlContent)
	if err != nil {
		return htmlContent
	}
	return minified
}
