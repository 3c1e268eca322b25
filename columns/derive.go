package columns

import (
	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/utils"
)

// Derive computes the ColumnSet of a batch: preferred columns present in the
// batch keep their given order, every other column follows sorted ascending.
func Derive(batch []record.Record, preferred []string) []string {

	maps := make([]map[string]record.Value, len(batch))
	for i, r := range batch {
		maps[i] = r
	}
	union := utils.UnionKeys(maps...)
	if len(union) == 0 {
		return []string{}
	}

	result := make([]string, 0, len(union))
	for _, col := range preferred {
		if _, ok := union[col]; !ok {
			continue
		}
		result = append(result, col)
		delete(union, col)
	}

	return append(result, utils.GetKeys(union)...)
}

// Intersect keeps the columns of candidates that belong to set, in set order.
func Intersect(set, candidates []string) []string {
	wanted := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		wanted[c] = struct{}{}
	}
	result := []string{}
	for _, c := range set {
		if _, ok := wanted[c]; ok {
			result = append(result, c)
		}
	}
	return result
}
