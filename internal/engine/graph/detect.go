package graph

import "sort"

// DetectCycles returns every include cycle reachable in the graph. Files and
// their includes are walked in sorted order so the result is stable.
func (g *IncludeGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	files := g.Files()
	sort.Strings(files)
	for _, file := range files {
		if !visited[file] {
			g.findCycles(file, visited, onStack, []string{}, &cycles)
		}
	}

	return cycles
}

func (g *IncludeGraph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range g.Includes(curr) {
		if onStack[next] {
			cycleStart := -1
			for i, file := range path {
				if file == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

// Dependents returns file followed by every file that includes it directly
// or transitively, breadth first.
func (g *IncludeGraph) Dependents(file string) []string {
	if _, ok := g.includes[file]; !ok {
		return nil
	}

	out := []string{file}
	seen := map[string]bool{file: true}
	queue := []string{file}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		importers := make([]string, 0, len(g.includedBy[curr]))
		for from := range g.includedBy[curr] {
			importers = append(importers, from)
		}
		sort.Strings(importers)

		for _, from := range importers {
			if seen[from] {
				continue
			}
			seen[from] = true
			out = append(out, from)
			queue = append(queue, from)
		}
	}

	return out
}
