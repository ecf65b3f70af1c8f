package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/cross-associations/pkg/autopart"
)

const sample = `# two triangles
% matrix market style comment
a b
b c 1
c a 2.5

d e
e f
f d
x a 0
lonely
`

func TestParseEdgeList(t *testing.T) {
	edges, err := ParseEdgeList(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Len(t, edges, 7)
	assert.Equal(t, Edge{From: "a", To: "b"}, edges[0])
	assert.Equal(t, Edge{From: "f", To: "d"}, edges[5])
	assert.Equal(t, Edge{From: "lonely"}, edges[6])
}

func TestParseEdgeListInvalidWeight(t *testing.T) {
	_, err := ParseEdgeList(strings.NewReader("a b 1\nb c heavy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestBuildGraph(t *testing.T) {
	edges, err := ParseEdgeList(strings.NewReader(sample))
	require.NoError(t, err)

	g := BuildGraph(edges, false)
	assert.Equal(t, 7, g.NumNodes())
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "lonely"}, g.Labels())

	a, _ := g.Index("a")
	c, _ := g.Index("c")
	assert.True(t, g.HasEdge(a, c))
	assert.True(t, g.HasEdge(c, a))

	_, ok := g.Index("x")
	assert.False(t, ok, "zero weight edges add no nodes")

	directed := BuildGraph(edges, true)
	assert.True(t, directed.HasEdge(c, a))
	assert.False(t, directed.HasEdge(a, c))
}

func TestReadEdgeList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	g, err := ReadEdgeList(path, false)
	require.NoError(t, err)
	assert.Equal(t, 7, g.NumNodes())

	_, err = ReadEdgeList(filepath.Join(t.TempDir(), "missing.txt"), false)
	assert.Error(t, err)
}

func TestParseMapping(t *testing.T) {
	mapping, err := ParseMapping(strings.NewReader("g0\n2\na\nb\n\ng1\n1\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"g0": {"a", "b"}, "g1": {"c"}}, mapping)

	_, err = ParseMapping(strings.NewReader("g0\n3\na\n"))
	assert.Error(t, err)
	_, err = ParseMapping(strings.NewReader("g0\nthree\n"))
	assert.Error(t, err)
	_, err = ParseMapping(strings.NewReader("g0\n"))
	assert.Error(t, err)
}

// The mapping written after a run reads back as the same grouping.
func TestMappingRoundTrip(t *testing.T) {
	edges, err := ParseEdgeList(strings.NewReader(sample))
	require.NoError(t, err)
	g := BuildGraph(edges, false)

	config := autopart.NewConfig()
	config.Set("logging.level", "disabled")
	result, err := autopart.Run(context.Background(), g, config)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, autopart.WriteAll(result, dir, "sample"))

	file, err := os.Open(filepath.Join(dir, "sample.mapping"))
	require.NoError(t, err)
	defer file.Close()
	mapping, err := ParseMapping(file)
	require.NoError(t, err)

	require.Len(t, mapping, result.K)
	total := 0
	for _, members := range mapping {
		total += len(members)
		for _, label := range members {
			assert.Equal(t, result.Assignment[members[0]], result.Assignment[label], label)
		}
	}
	assert.Equal(t, g.NumNodes(), total)
}
