package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/registrant-portal/internal/models"
)

func seed(n int) []models.Registrant {
	out := make([]models.Registrant, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Registrant{ID: fmt.Sprintf("id-%02d", i), Name: fmt.Sprintf("User %02d", i)})
	}
	return out
}

func TestFilterIsCaseSensitiveSubstring(t *testing.T) {
	coll := []models.Registrant{{ID: "1", Name: "Ada"}, {ID: "2", Name: "adam"}, {ID: "3", Name: "Grace"}}

	assert.Equal(t, []models.Registrant{{ID: "1", Name: "Ada"}}, Filter(coll, "Ad"))
	assert.Equal(t, []models.Registrant{{ID: "2", Name: "adam"}}, Filter(coll, "dam"))
	assert.Len(t, Filter(coll, ""), 3)
	assert.Empty(t, Filter(coll, "zzz"))
}

func TestFilterIsIdempotent(t *testing.T) {
	coll := seed(25)
	for _, term := range []string{"", "User", "1", "User 2", "x"} {
		once := Filter(coll, term)
		assert.Equal(t, once, Filter(once, term), term)
		for _, r := range once {
			assert.Contains(t, r.Name, term)
		}
	}
}

func TestFilterDoesNotAlias(t *testing.T) {
	coll := seed(3)
	out := Filter(coll, "")
	out[0].Name = "changed"
	assert.Equal(t, "User 01", coll[0].Name)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-4, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestPaginateTwentyFiveEntries(t *testing.T) {
	coll := seed(25)
	require.Equal(t, 3, TotalPages(len(coll), PageSize))

	last := Paginate(coll, 3, PageSize)
	require.Len(t, last, 5)
	assert.Equal(t, "User 21", last[0].Name)
	assert.Equal(t, "User 25", last[4].Name)

	for page := 1; page <= 3; page++ {
		rows := Paginate(coll, page, PageSize)
		assert.Equal(t, coll[(page-1)*PageSize].ID, rows[0].ID)
	}
	assert.Equal(t, last, Paginate(coll, 7, PageSize))
}

func TestWindowEmptyView(t *testing.T) {
	info := Window(Filter(seed(25), "nobody"), 2, PageSize)
	assert.Equal(t, 0, info.TotalPages)
	assert.Empty(t, info.Rows)
	assert.Empty(t, info.Pages())
	assert.Equal(t, 0, info.From)
	assert.Equal(t, 0, info.To)
	assert.False(t, info.HasPrev)
	assert.False(t, info.HasNext)
}

func TestWindowCounters(t *testing.T) {
	info := Window(seed(25), 3, PageSize)
	assert.Equal(t, 21, info.From)
	assert.Equal(t, 25, info.To)
	assert.Equal(t, 25, info.Of)
	assert.True(t, info.HasPrev)
	assert.False(t, info.HasNext)
	assert.Equal(t, []int{1, 2, 3}, info.Pages())
}
