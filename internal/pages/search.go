package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// Search results below this relevance fraction are considered unrelated to
// the query.
const minRelevance = 0.30

// SearchPage models the search result page.
type SearchPage struct {
	BasePage
}

func NewSearchPage(page playwright.Page, env Env) *SearchPage {
	return &SearchPage{newBase(page, env, "pages.search")}
}

// ShouldBeOnSearchPage verifies the result container is present. A "no
// results" page is still a valid search page.
func (s *SearchPage) ShouldBeOnSearchPage() error {
	if err := s.ShouldSeeElement(selectors.Search.Container); err != nil {
		return err
	}
	s.Settle()

	if visible, _ := s.page.Locator(selectors.Search.NoResult).IsVisible(); visible {
		s.log.Info("Search returned no results")
	}
	return nil
}

// ShouldHaveSearchResults returns the number of product cards. When fewer
// than min are found it navigates back to the homepage and returns
// ErrTooFewResults.
func (s *SearchPage) ShouldHaveSearchResults(min int) (int, error) {
	results := s.page.Locator(selectors.Search.ProductCards)
	count, err := results.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	s.log.Info("Search results counted", zap.Int("count", count), zap.Int("min", min))

	if count < min {
		s.log.Warn("Too few search results, returning to homepage",
			zap.Int("count", count), zap.Int("min", min), zap.String("url", s.CurrentURL()))
		if _, err := s.ClickLogo(); err != nil {
			s.log.Warn("Failed to navigate back to homepage", zap.Error(err))
		}
		return count, fmt.Errorf("%w: got %d, need %d", ErrTooFewResults, count, min)
	}

	if err := s.WaitVisible(selectors.Search.ProductCards); err != nil {
		return count, err
	}
	return count, nil
}

// GetProductTitle returns the title and displayed price of the 1-based index-th
// result card.
func (s *SearchPage) GetProductTitle(index int) (title, price string, err error) {
	card := s.page.Locator(selectors.Search.ProductCards).Nth(index - 1)

	title, err = card.Locator(selectors.Search.ProductTitle).InnerText()
	if err != nil {
		return "", "", fmt.Errorf("failed to read title of result %d: %w", index, err)
	}
	price, err = card.Locator(selectors.Search.ProductPrice).InnerText()
	if err != nil {
		return "", "", fmt.Errorf("failed to read price of result %d: %w", index, err)
	}
	s.log.Debug("Result card read", zap.Int("index", index), zap.String("title", title), zap.String("price", price))
	return title, price, nil
}

// ClickProductByIndex opens the 1-based index-th result. The storefront opens
// items in a new tab from some placements and in place from others; the
// returned ProductPage wraps whichever page ends up on the item URL.
func (s *SearchPage) ClickProductByIndex(index int) (*ProductPage, error) {
	card := s.page.Locator(selectors.Search.ProductCards).Nth(index - 1)

	visible, err := card.IsVisible()
	if err != nil || !visible {
		return nil, fmt.Errorf("%w: result %d not present", ErrItemIndex, index)
	}

	image := card.Locator(selectors.Search.ProductImage)
	if err := image.ScrollIntoViewIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to scroll result %d into view: %w", index, err)
	}
	s.HumanDelay()

	target := s.page
	newPage, err := s.page.Context().ExpectPage(func() error {
		return image.Click()
	}, playwright.BrowserContextExpectPageOptions{
		Timeout: playwright.Float(float64(s.env.Timeouts.NewTab.Milliseconds())),
	})
	if err == nil {
		target = newPage
	}

	product := NewProductPage(target, s.env)
	if err := product.ShouldHaveURL(s.env.Site.ItemPattern); err != nil {
		return nil, fmt.Errorf("item page did not load for result %d: %w", index, err)
	}
	s.log.Info("Opened product", zap.Int("index", index), zap.String("url", product.CurrentURL()))
	return product, nil
}

// ApplyPriceFilter fills the min/max price inputs and applies the filter.
// Zero values leave the corresponding bound unset.
func (s *SearchPage) ApplyPriceFilter(minPrice, maxPrice int) error {
	s.log.Info("Applying price filter", zap.Int("min", minPrice), zap.Int("max", maxPrice))

	filter := s.page.Locator(selectors.Search.PriceFilter)

	if minPrice > 0 {
		err := filter.Locator(selectors.Search.FilterMin).Type(strconv.Itoa(minPrice),
			playwright.LocatorTypeOptions{Delay: playwright.Float(s.env.Pace.TypingDelay())})
		if err != nil {
			return fmt.Errorf("failed to fill minimum price: %w", err)
		}
		s.Settle()
	}
	if maxPrice > 0 {
		err := filter.Locator(selectors.Search.FilterMax).Type(strconv.Itoa(maxPrice),
			playwright.LocatorTypeOptions{Delay: playwright.Float(s.env.Pace.TypingDelay())})
		if err != nil {
			return fmt.Errorf("failed to fill maximum price: %w", err)
		}
		s.Settle()
	}

	if err := filter.Locator(selectors.Search.FilterButton).Click(); err != nil {
		return fmt.Errorf("failed to apply price filter: %w", err)
	}
	return s.WaitForLoad()
}

// SortByPriceLowToHigh switches the result ordering to ascending price.
func (s *SearchPage) SortByPriceLowToHigh() error {
	s.log.Info("Sorting by lowest price")

	if err := s.page.Locator(selectors.Search.SortToggle).Click(); err != nil {
		return fmt.Errorf("failed to open sort options: %w", err)
	}
	s.HumanDelay()

	if err := s.page.Locator(selectors.Search.SortLowPrice).Click(); err != nil {
		return fmt.Errorf("failed to select lowest price sort: %w", err)
	}
	return s.WaitForLoad()
}

// GetAllProductTitles collects up to limit result titles.
func (s *SearchPage) GetAllProductTitles(limit int) ([]string, error) {
	cards := s.page.Locator(selectors.Search.ProductCards)
	count, err := cards.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count result cards: %w", err)
	}
	if count > limit {
		count = limit
	}

	titles := make([]string, 0, count)
	for i := 0; i < count; i++ {
		title, err := cards.Nth(i).Locator(selectors.Search.ProductTitle).InnerText()
		if err != nil {
			return titles, fmt.Errorf("failed to read title of result %d: %w", i+1, err)
		}
		titles = append(titles, title)
	}
	s.log.Info("Collected result titles", zap.Int("count", len(titles)))
	return titles, nil
}

// VerifySearchKeywordInResults checks whether the top results relate to the
// keyword. It returns the inspected titles and whether at least 30% of them
// contain the keyword case-insensitively.
func (s *SearchPage) VerifySearchKeywordInResults(keyword string) ([]string, bool, error) {
	titles, err := s.GetAllProductTitles(5)
	if err != nil {
		return nil, false, err
	}
	if len(titles) == 0 {
		s.log.Warn("No results to verify relevance against")
		return titles, false, nil
	}

	rate := KeywordRelevance(keyword, titles)
	s.log.Info("Search relevance computed",
		zap.String("keyword", keyword),
		zap.Float64("rate", rate),
		zap.Int("titles", len(titles)))
	return titles, rate >= minRelevance, nil
}

// KeywordRelevance returns the fraction of titles containing the keyword,
// compared case-insensitively.
func KeywordRelevance(keyword string, titles []string) float64 {
	if len(titles) == 0 {
		return 0
	}
	needle := strings.ToLower(keyword)
	relevant := 0
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), needle) {
			relevant++
		}
	}
	return float64(relevant) / float64(len(titles))
}

// ClickLogo returns to the homepage.
func (s *SearchPage) ClickLogo() (*HomePage, error) {
	if err := s.clickHeaderLogo(); err != nil {
		return nil, err
	}
	return NewHomePage(s.page, s.env), nil
}

// ClickCartButton opens the shopping cart.
func (s *SearchPage) ClickCartButton() (*CartPage, error) {
	if err := s.openCartViaHeader(); err != nil {
		return nil, err
	}
	return NewCartPage(s.page, s.env), nil
}

// ClickLoginButton signs in via the header; returns the search page itself on
// success.
func (s *SearchPage) ClickLoginButton(username, password string) (*SearchPage, error) {
	if err := s.loginViaHeader(username, password); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout ends the session and returns the resulting homepage.
func (s *SearchPage) Logout() (*HomePage, error) {
	if err := s.logoutViaHeader(); err != nil {
		return nil, err
	}
	return NewHomePage(s.page, s.env), nil
}
