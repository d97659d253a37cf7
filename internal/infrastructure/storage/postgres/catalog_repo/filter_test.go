package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/domain/filter"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "col1"}, func() any { return nil })
}

func TestApplyAdvancedFiltersOperators(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "equal",
			item:     filter.Item{Field: "col1", Operator: filter.Equal, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 = $1",
			wantArgs: []any{10},
		},
		{
			name:     "not equal",
			item:     filter.Item{Field: "col1", Operator: filter.NotEqual, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <> $1",
			wantArgs: []any{10},
		},
		{
			name:     "less or equal",
			item:     filter.Item{Field: "col1", Operator: filter.LessOrEqual, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <= $1",
			wantArgs: []any{5},
		},
		{
			name:     "greater or equal",
			item:     filter.Item{Field: "col1", Operator: filter.GreaterOrEqual, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 >= $1",
			wantArgs: []any{5},
		},
		{
			name:     "contains",
			item:     filter.Item{Field: "col1", Operator: filter.Contains, Value: "abc"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 ILIKE $1",
			wantArgs: []any{"%abc%"},
		},
		{
			name:    "is null",
			item:    filter.Item{Field: "col1", Operator: filter.IsNull},
			wantSQL: "SELECT id, col1 FROM test_table WHERE col1 IS NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{tt.item})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, len(tt.wantArgs), len(args))
			if len(tt.wantArgs) > 0 {
				assert.Equal(t, tt.wantArgs[0], args[0])
			}
		})
	}
}

func TestApplyAdvancedFiltersRejectsUnknownColumn(t *testing.T) {
	repo := testRepo()

	_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
		{Field: "evil; DROP TABLE test_table", Operator: filter.Equal, Value: 1},
	})
	require.Error(t, err)
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "name ASC"},
		{in: "col1", want: "col1 ASC"},
		{in: "+col1", want: "col1 ASC"},
		{in: "-col1", want: "col1 DESC"},
		{in: "unknown", wantErr: true},
		{in: "col1; DROP TABLE test_table", wantErr: true},
	}

	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
