package e2e

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yangsun94/Gmarket-Project/internal/pages"
)

// TestShoppingFlow walks the anonymous happy path: home, search, filter,
// sort, relevance check, then open a product and read its details.
func TestShoppingFlow(t *testing.T) {
	f := requireFixture(t)
	page := f.Page(t)
	defer f.CaptureFailure(t, page)

	home := pages.NewHomePage(page, f.Env())
	require.NoError(t, home.Visit())
	require.NoError(t, home.ShouldBeOnHomepage())
	require.NoError(t, home.ShouldSeeMainElements())

	search, err := home.SearchProduct("무선 이어폰")
	require.NoError(t, err)
	require.NoError(t, search.ShouldBeOnSearchPage())

	count, err := search.ShouldHaveSearchResults(1)
	if errors.Is(err, pages.ErrTooFewResults) {
		t.Skipf("storefront returned %d results for the probe keyword", count)
	}
	require.NoError(t, err)

	require.NoError(t, search.ApplyPriceFilter(5000, 300000))
	require.NoError(t, search.SortByPriceLowToHigh())

	titles, relevant, err := search.VerifySearchKeywordInResults("무선 이어폰")
	require.NoError(t, err)
	assert.True(t, relevant, "top results unrelated to keyword: %v", titles)

	product, err := search.ClickProductByIndex(1)
	require.NoError(t, err)
	require.NoError(t, product.ShouldBeOnProductPage())

	info, err := product.GetProductInfo()
	require.NoError(t, err)
	assert.NotEmpty(t, info.Title)
	assert.NotEmpty(t, info.Price)

	assert.NoError(t, product.ScrollAndExplore())
}

// TestHomepageBrowsing exercises the humanized browsing helpers on their own.
func TestHomepageBrowsing(t *testing.T) {
	f := requireFixture(t)
	page := f.Page(t)
	defer f.CaptureFailure(t, page)

	home := pages.NewHomePage(page, f.Env())
	require.NoError(t, home.Visit())
	require.NoError(t, home.ShouldBeOnHomepage())
	assert.NoError(t, home.BrowseNaturally())
}
