package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Name   string
	Status string
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{Name: fmt.Sprintf("Customer %02d", i+1), Status: "pending"}
	}
	return out
}

func TestPaginate(t *testing.T) {
	p := Paginate(rows(23), 3)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.TotalItems)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, "Customer 21", p.Items[0].Name)

	assert.Equal(t, 3, Paginate(rows(23), 9).Page)
	assert.Equal(t, 1, Paginate(rows(23), 0).Page)

	empty := Paginate([]row{}, 1)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestFilterAndSearch(t *testing.T) {
	items := []row{
		{Name: "Budi Santoso", Status: "pending"},
		{Name: "Siti Aminah", Status: "success"},
		{Name: "budiman", Status: "success"},
	}
	fields := func(r row) []string { return []string{r.Name} }

	assert.Len(t, Search(items, "", fields), 3)
	assert.Len(t, Search(items, "BUDI", fields), 2)

	success := Where(items, func(r row) bool { return r.Status == "success" })
	both := Search(success, "budi", fields)
	assert.Equal(t, []row{{Name: "budiman", Status: "success"}}, both)
}
