// Package parser reads graphs from edge list files.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gilchrisn/cross-associations/pkg/autopart"
)

// Edge represents one line of an edge list
type Edge struct {
	From string
	To   string
}

// ParseEdgeList reads "from to [weight]" lines. Blank lines and lines
// starting with '#' or '%' are skipped. A line with a single field declares
// an isolated node and is returned as an Edge with an empty To. Edges whose
// weight parses to zero are dropped.
func ParseEdgeList(r io.Reader) ([]Edge, error) {
	var edges []Edge
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 1 {
			edges = append(edges, Edge{From: parts[0]})
			continue
		}

		if len(parts) >= 3 {
			w, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid weight %q: %w", lineNum, parts[2], err)
			}
			if w == 0 {
				continue
			}
		}

		edges = append(edges, Edge{From: parts[0], To: parts[1]})
	}

	return edges, scanner.Err()
}

// BuildGraph creates a graph from parsed edges in file order
func BuildGraph(edges []Edge, directed bool) *autopart.Graph {
	g := autopart.NewGraph(directed)
	for _, e := range edges {
		if e.To == "" {
			g.AddNode(e.From)
			continue
		}
		g.AddEdge(e.From, e.To)
	}
	return g
}

// ReadEdgeList loads a graph from an edge list file
func ReadEdgeList(path string, directed bool) (*autopart.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open edge list %s: %w", path, err)
	}
	defer file.Close()

	edges, err := ParseEdgeList(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return BuildGraph(edges, directed), nil
}

// ParseMapping reads the group mapping format written by
// autopart.WriteMapping: a group id line, a size line, then that many labels
func ParseMapping(r io.Reader) (map[string][]string, error) {
	mapping := make(map[string][]string)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		groupID := strings.TrimSpace(scanner.Text())
		if groupID == "" {
			continue
		}
		if !scanner.Scan() {
			return nil, fmt.Errorf("group %s: missing size line", groupID)
		}
		count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil, fmt.Errorf("group %s: invalid size: %w", groupID, err)
		}

		members := make([]string, 0, count)
		for i := 0; i < count; i++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("group %s: expected %d members, got %d", groupID, count, i)
			}
			members = append(members, strings.TrimSpace(scanner.Text()))
		}
		mapping[groupID] = members
	}

	return mapping, scanner.Err()
}
