package catalog

import (
	"slices"

	"github.com/bobmcallan/catalog/internal/models"
)

// CategoryPairs returns the distinct (middle, sub) pairs of records in
// first-seen order. Rows with neither category are skipped.
func CategoryPairs(records []models.Record) []models.CategoryPair {
	seen := make(map[models.CategoryPair]struct{})
	pairs := make([]models.CategoryPair, 0)
	for _, r := range records {
		p := models.CategoryPair{Middle: r.MiddleCategory(), Sub: r.SubCategory()}
		if p.Middle == "" && p.Sub == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	return pairs
}

// CategoryTree nests sub categories under their middle category, keeping the
// order pairs were first seen in.
func CategoryTree(pairs []models.CategoryPair) []models.CategoryNode {
	index := make(map[string]int)
	nodes := make([]models.CategoryNode, 0)
	for _, p := range pairs {
		i, ok := index[p.Middle]
		if !ok {
			i = len(nodes)
			index[p.Middle] = i
			nodes = append(nodes, models.CategoryNode{Middle: p.Middle, Subs: []string{}})
		}
		if p.Sub == "" || slices.Contains(nodes[i].Subs, p.Sub) {
			continue
		}
		nodes[i].Subs = append(nodes[i].Subs, p.Sub)
	}
	return nodes
}

