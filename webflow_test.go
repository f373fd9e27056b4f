package webflow

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/webflow/internal/metrics"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "void element",
			source: "img:;",
			want:   "<img>\n",
		},
		{
			name:   "content closes the tag",
			source: "div:content:{hi};",
			want:   "<div>\n\thi\n</div>\n",
		},
		{
			name:   "nested children keep order",
			source: "div:span:;b:;;",
			want:   "<div>\n\t<span>\n\t<b>\n</div>\n",
		},
		{
			name:   "classes before ids in source",
			source: "div:classes:{a,b}ids:{x};",
			want:   "<div id=\"x \" class=\"a b \">\n",
		},
		{
			name:   "ids before classes in source",
			source: "div:ids:{x}classes:{a,b};",
			want:   "<div id=\"x \" class=\"a b \">\n",
		},
		{
			name:   "defer is bare",
			source: "script:props:{defer: no, src: a.js};",
			want:   "<script defer src=\"a.js\">\n",
		},
		{
			name:   "quoted commas are not separators",
			source: `p:classes:{"a,b",c};`,
			want:   "<p class=\"a,b c \">\n",
		},
		{
			name:   "style and dataset",
			source: "a: dataset:{id: 7} styles:{color: red, margin: 0};",
			want:   "<a style=\"color:red;margin:0\" data-id=\"7\">\n",
		},
		{
			name:   "top level elements",
			source: "a:;\nb:;",
			want:   "<a>\n\n<b>\n",
		},
		{
			name:   "only whitespace and comments",
			source: "  -- nothing here\n\t",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileStripsComments(t *testing.T) {
	withComment, err := Compile("-- comment\ndiv:;")
	require.NoError(t, err)
	without, err := Compile("div:;")
	require.NoError(t, err)
	assert.Equal(t, without, withComment)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   ErrorKind
		offset int
	}{
		{"empty source", "", EmptySource, 0},
		{"unclosed block", "div:{content:hello", UnclosedBlock, 4},
		{"unknown character", "div:#;", UnexpectedCharacter, 4},
		{"single dash", "div:-;", UnexpectedCharacter, 4},
		{"missing terminator", "div:", UnexpectedToken, 4},
		{"block without keyword", "div:{x};", UnexpectedToken, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compile(tt.source)
			require.Error(t, err)
			assert.Empty(t, out, "no partial HTML on error")

			var cerr *Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.kind, cerr.Kind)
			assert.Equal(t, tt.offset, cerr.Offset)
			assert.True(t, IsKind(fmt.Errorf("page.webf: %w", err), tt.kind))
		})
	}
}

func TestCompileRejectsUnknownCharacters(t *testing.T) {
	for _, c := range `#!@$%^&*()[]<>=+/\|?.,'"~` + "`}" {
		t.Run(string(c), func(t *testing.T) {
			_, err := Compile("div:" + string(c) + ";")
			assert.Equal(t, UnexpectedCharacter, KindOf(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("%q", c))
		})
	}
}

func TestStagesMatchCompile(t *testing.T) {
	src := "ul: ids:{list} li: content:{one}; li: content:{two}; ;"

	tokens, err := Lex(src)
	require.NoError(t, err)
	forest, err := Parse(tokens)
	require.NoError(t, err)

	want, err := Compile(src)
	require.NoError(t, err)
	assert.Equal(t, want, Render(forest))
}

var (
	randomTags     = []string{"div", "span", "p", "ul", "li", "a", "img", "section", "h1", "b"}
	randomPropKeys = []string{"href", "src", "title", "defer", "alt"}
)

// randomDocument builds a syntactically valid document from faker's stream.
func randomDocument(f *gofakeit.Faker) string {
	var sb strings.Builder
	for i := f.IntRange(1, 3); i > 0; i-- {
		writeRandomElement(f, &sb, 3)
	}
	return sb.String()
}

func writeRandomElement(f *gofakeit.Faker, sb *strings.Builder, depth int) {
	sb.WriteString(f.RandomString(randomTags))
	sb.WriteString(":\n")
	if f.Bool() {
		fmt.Fprintf(sb, "classes:{%s, \"%s,%s\"}\n", f.Word(), f.Word(), f.Word())
	}
	if f.Bool() {
		fmt.Fprintf(sb, "ids:{%s}\n", f.Word())
	}
	if f.Bool() {
		fmt.Fprintf(sb, "content:{%s\\, %s}\n", f.Word(), f.Word())
	}
	if f.Bool() {
		fmt.Fprintf(sb, "props:{%s: %s, %s: %s}\n", f.RandomString(randomPropKeys), f.Word(), f.RandomString(randomPropKeys), f.Word())
	}
	if f.Bool() {
		fmt.Fprintf(sb, "dataset:{%s: %d}\n", f.RandomString(randomPropKeys), f.IntRange(0, 99))
	}
	if f.Bool() {
		sb.WriteString("-- generated\n")
	}
	if depth > 0 {
		for i := f.IntRange(0, 3); i > 0; i-- {
			writeRandomElement(f, sb, depth-1)
		}
	}
	sb.WriteString(";\n")
}

func TestCompileIsDeterministic(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		src := randomDocument(gofakeit.New(seed))

		first, err := Compile(src)
		require.NoError(t, err, "seed %d:\n%s", seed, src)
		require.NotEmpty(t, first)

		for i := 0; i < 3; i++ {
			again, err := Compile(src)
			require.NoError(t, err)
			assert.Equal(t, first, again, "seed %d", seed)
		}
	}
}

func TestCompileConcurrent(t *testing.T) {
	docs := make([]string, 20)
	want := make([]string, len(docs))
	for i := range docs {
		docs[i] = randomDocument(gofakeit.New(uint64(100 + i)))
		out, err := Compile(docs[i])
		require.NoError(t, err)
		want[i] = out
	}

	compiler := New()
	var wg sync.WaitGroup
	got := make([]string, len(docs))
	errs := make([]error, len(docs))
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = compiler.Compile(docs[i])
		}(i)
	}
	wg.Wait()

	for i := range docs {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i], got[i])
	}
}

func TestWithIndent(t *testing.T) {
	out, err := New(WithIndent("  ")).Compile("ul: li: content:{one}; ;")
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n  <li>\n    one\n  </li>\n</ul>\n", out)
}

func TestWithMinify(t *testing.T) {
	src := "div: ids:{main} h1: content:{Hello}; p: content:{world}; ;"

	plain, err := Compile(src)
	require.NoError(t, err)
	minified, err := New(WithMinify(true)).Compile(src)
	require.NoError(t, err)

	assert.Less(t, len(minified), len(plain))
	assert.NotContains(t, minified, "\n\t")
	assert.Contains(t, minified, "Hello")
	assert.Contains(t, minified, "</h1>")
	assert.Contains(t, minified, "</div>")
}

func TestWithMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	compiler := New(WithMetrics(collector))

	_, err := compiler.Compile("div: p:; p:;;")
	require.NoError(t, err)
	_, err = compiler.Compile("div:#;")
	require.Error(t, err)
	_, err = compiler.Compile("")
	require.Error(t, err)

	m := collector.GetMetrics()
	assert.Equal(t, int64(1), m.Compilations)
	assert.Equal(t, int64(2), m.Failures)
	assert.Equal(t, int64(3), m.Elements)
	assert.Equal(t, int64(0), m.ActiveCompiles)
	assert.Equal(t, map[string]int64{
		string(UnexpectedCharacter): 1,
		string(EmptySource):         1,
	}, collector.GetFailuresByKind())
	assert.Same(t, collector, compiler.Config().Metrics)
}

func TestCheck(t *testing.T) {
	n, err := New().Check("div: p:; p: b:;; ; img:;")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = New().Check("div:")
	assert.True(t, IsKind(err, UnexpectedToken))
}
