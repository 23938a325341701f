package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/browser"
	"github.com/Yangsun94/Gmarket-Project/internal/observability"
	"github.com/Yangsun94/Gmarket-Project/internal/pages"
)

// newSmokeCmd creates the `smoke` command: an anonymous search-to-product
// flow against the live site, useful for checking selectors and pacing
// without running the test suite.
func newSmokeCmd() *cobra.Command {
	var keyword string

	smokeCmd := &cobra.Command{
		Use:   "smoke",
		Short: "Runs an anonymous search and product-detail flow against the live storefront",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			manager := browser.NewManager(cfg, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), browser.ShutdownGracePeriod)
				defer cancel()
				if err := manager.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Browser shutdown reported an error", zap.Error(err))
				}
			}()

			browserCtx, err := manager.NewContext(ctx)
			if err != nil {
				return fmt.Errorf("failed to create browser context: %w", err)
			}
			page, err := manager.NewPage(browserCtx)
			if err != nil {
				return err
			}

			home := pages.NewHomePage(page, manager.PageEnv())
			if err := home.Visit(); err != nil {
				return err
			}
			if err := home.ShouldBeOnHomepage(); err != nil {
				return err
			}
			if err := home.ShouldSeeMainElements(); err != nil {
				return err
			}

			search, err := home.SearchProduct(keyword)
			if err != nil {
				return err
			}
			if err := search.ShouldBeOnSearchPage(); err != nil {
				return err
			}
			count, err := search.ShouldHaveSearchResults(1)
			if err != nil {
				return err
			}
			logger.Info("Search results found", zap.String("keyword", keyword), zap.Int("count", count))

			titles, relevant, err := search.VerifySearchKeywordInResults(keyword)
			if err != nil {
				return err
			}
			logger.Info("Relevance check", zap.Bool("relevant", relevant), zap.Int("titles", len(titles)))

			product, err := search.ClickProductByIndex(1)
			if err != nil {
				return err
			}
			if err := product.ShouldBeOnProductPage(); err != nil {
				return err
			}
			info, err := product.GetProductInfo()
			if err != nil {
				return err
			}

			fmt.Printf("\nSmoke flow complete.\n  Title:    %s\n  Price:    %s\n  Shipping: %s\n",
				info.Title, info.Price, info.Shipping)
			return nil
		},
	}

	smokeCmd.Flags().StringVarP(&keyword, "keyword", "k", "마우스", "Search keyword for the smoke flow")
	return smokeCmd
}
