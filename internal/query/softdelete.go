package query

import (
	"slices"
	"strings"

	"github.com/zorxCorp/guaphy/internal/model"
)

// finalize returns the statements to execute. The soft-delete filter is
// applied to a copy so finalizing twice never injects it twice.
func (b *Builder) finalize() []string {
	stmts := slices.Clone(b.statements)
	if b.entity == nil || b.withTrashed || !b.entity.Schema().SoftDeletes {
		return stmts
	}

	filter := "NOT exists(" + b.entity.Variable() + "." + model.DeletedAt + ")"

	if i := lastIndex(stmts, "WHERE"); i >= 0 {
		stmts[i] = "WHERE " + filter + " AND" + strings.TrimPrefix(stmts[i], "WHERE")
		return stmts
	}

	i := lastIndex(stmts, "OPTIONAL MATCH")
	if i < 0 {
		i = lastIndex(stmts, "MATCH")
	}
	if i < 0 {
		return stmts
	}
	return slices.Insert(stmts, i+1, "WHERE "+filter)
}

// lastIndex returns the index of the last statement starting with keyword.
func lastIndex(stmts []string, keyword string) int {
	for i := len(stmts) - 1; i >= 0; i-- {
		if strings.HasPrefix(stmts[i], keyword) {
			return i
		}
	}
	return -1
}
