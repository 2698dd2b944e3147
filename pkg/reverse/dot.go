package reverse

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"
)

// ToDOT renders the dependents subgraph reached from target as Graphviz DOT.
//
// Nodes are package names (one node per package, matching the walk's
// name-level granularity); an edge A -> B means B depends on some version of
// A. Only edges between target and the given refs are included. The result
// can be rendered with [RenderSVG].
func ToDOT(idx *Index, target string, refs []Ref) string {
	included := map[string]bool{target: true}
	for _, ref := range refs {
		included[ref.Name] = true
	}

	edges := make(map[[2]string]bool)
	for name, versions := range idx.Snapshot() {
		if !included[name] {
			continue
		}
		for _, deps := range versions {
			for _, dep := range deps {
				if included[dep.Name] && dep.Name != name {
					edges[[2]string{name, dep.Name}] = true
				}
			}
		}
	}

	names := make([]string, 0, len(included))
	for name := range included {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString("digraph dependents {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, name := range names {
		if name == target {
			fmt.Fprintf(&buf, "  %q [fillcolor=lightblue];\n", name)
			continue
		}
		fmt.Fprintf(&buf, "  %q;\n", name)
	}

	buf.WriteString("\n")
	keys := make([][2]string, 0, len(edges))
	for e := range edges {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, e := range keys {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
