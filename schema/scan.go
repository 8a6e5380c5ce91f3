package schema

import (
	"fmt"

	"github.com/zeptools/pgq/result"
)

type targetFieldsProvider interface {
	TargetFields() []any
}

// Scannable constrains MP to a *M that exposes scan destinations for its
// columns, in the same order the Definition lists them.
type Scannable[M any] interface {
	~*M
	targetFieldsProvider
}

// Items scans every row of res into a freshly allocated model each.
func Items[M any, MP Scannable[M]](res *result.Result) ([]*M, error) {
	items := make([]*M, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		item, err := scanRow[M, MP](res.Row(i))
		if err != nil {
			return nil, fmt.Errorf("schema: row %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Item scans the single row of res. Exactly one row is required.
func Item[M any, MP Scannable[M]](res *result.Result) (*M, error) {
	if res.Len() != 1 {
		return nil, fmt.Errorf("schema: expected exactly one row, got %d", res.Len())
	}
	return scanRow[M, MP](res.Row(0))
}

func scanRow[M any, MP Scannable[M]](row result.Row) (*M, error) {
	var item M
	p := MP(&item)
	if err := row.Scan(p.TargetFields()...); err != nil {
		return nil, err
	}
	return &item, nil
}
