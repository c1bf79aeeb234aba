package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	intconfig "jobboard/internal/config"
	"jobboard/internal/listquery"
)

// listSpec maps the public list contract of one entity onto SQL. Only
// columns named here can reach a query, so sort and filter input is never
// interpolated.
type listSpec struct {
	from        string
	sortColumns map[listquery.SortField]string
	keywordCols []string
	filterCols  map[string]string
	// tieBreak keeps paging stable when the requested sort has ties.
	tieBreak string
}

type listQuery struct {
	where   string
	args    []any
	orderBy string
}

func (s listSpec) build(st listquery.State) listQuery {
	var conds []string
	var args []any

	if kw := strings.TrimSpace(st.Keyword); kw != "" && len(s.keywordCols) > 0 {
		like := "%" + escapeLike(kw) + "%"
		ors := make([]string, 0, len(s.keywordCols))
		for _, col := range s.keywordCols {
			ors = append(ors, col+" LIKE ?")
			args = append(args, like)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	for _, key := range slices.Sorted(maps.Keys(st.Filters)) {
		col, ok := s.filterCols[key]
		val := strings.TrimSpace(st.Filters[key])
		if !ok || val == "" {
			continue
		}
		conds = append(conds, col+" = ?")
		args = append(args, val)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	order := make([]string, 0, len(st.Sorts)+1)
	for _, srt := range st.Sorts {
		col, ok := s.sortColumns[srt.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if srt.Direction == listquery.Desc {
			dir = "DESC"
		}
		order = append(order, col+" "+dir)
	}
	if s.tieBreak != "" {
		order = append(order, s.tieBreak)
	}
	orderBy := ""
	if len(order) > 0 {
		orderBy = " ORDER BY " + strings.Join(order, ", ")
	}

	return listQuery{where: where, args: args, orderBy: orderBy}
}

// list runs the COUNT and the page SELECT of st and hands every row to scan.
func list(ctx context.Context, db *sql.DB, spec listSpec, columns string, st listquery.State, scan func(*sql.Rows) error) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database not connected")
	}
	q := spec.build(st)

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+spec.from+q.where, q.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", spec.from, err)
	}
	if total == 0 {
		return 0, nil
	}

	pageArgs := append(append([]any(nil), q.args...), st.PageSize, st.Offset())
	rows, err := db.QueryContext(ctx, "SELECT "+columns+" FROM "+spec.from+q.where+q.orderBy+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", spec.from, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, err
		}
	}
	return total, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func dbOrShared(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}
