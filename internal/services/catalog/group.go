package catalog

import "github.com/bobmcallan/catalog/internal/models"

// GroupRecords partitions records by group key (same-model column, falling
// back to model code). Groups keep the order of their first member, the
// representative is that first member, and the group's price is the minimum
// usage fee across all members.
func GroupRecords(records []models.Record) []models.ModelGroup {
	index := make(map[string]int)
	groups := make([]models.ModelGroup, 0)

	for _, r := range records {
		key := r.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.ModelGroup{
				Key:            key,
				Name:           r.ProductName(),
				Representative: r,
			})
		}
		groups[i].Members = append(groups[i].Members, r)
	}

	for i := range groups {
		summarize(&groups[i])
	}
	return groups
}

// NewModelGroup builds a single group from an option set.
func NewModelGroup(key string, members []models.Record) models.ModelGroup {
	g := models.ModelGroup{Key: key, Members: members}
	if len(members) > 0 {
		g.Representative = members[0]
		g.Name = members[0].ProductName()
	}
	summarize(&g)
	return g
}

func summarize(g *models.ModelGroup) {
	g.ModelCodes = distinct(g.Members, func(r models.Record) string { return r.ModelCode() })

	for i, r := range g.Members {
		fee := UsageFee(r)
		if i == 0 || fee < g.MinUsageFee {
			g.MinUsageFee = fee
		}
	}
	g.BestPrice = BestPrice(g.MinUsageFee)
}

// distinct collects the non-empty values of fn over records in first-seen order.
func distinct(records []models.Record, fn func(models.Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		v := fn(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
