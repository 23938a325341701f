package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// ProductInfo is the scraped summary of an item detail page.
type ProductInfo struct {
	Title    string
	Price    string
	Shipping string
}

// ProductPage models the item detail page.
type ProductPage struct {
	BasePage
}

func NewProductPage(page playwright.Page, env Env) *ProductPage {
	return &ProductPage{newBase(page, env, "pages.product")}
}

// ShouldBeOnProductPage verifies the item container is present.
func (p *ProductPage) ShouldBeOnProductPage() error {
	if err := p.ShouldSeeElement(selectors.Product.Container); err != nil {
		return err
	}
	p.Settle()
	return nil
}

// GetProductInfo scrapes the title, price and shipping line. The page renders
// some of these twice; the second occurrence is the one shown to the user,
// so it wins when present.
func (p *ProductPage) GetProductInfo() (ProductInfo, error) {
	title, err := p.page.Locator(selectors.Product.Title).InnerText()
	if err != nil {
		return ProductInfo{}, fmt.Errorf("failed to read product title: %w", err)
	}

	price, err := p.preferSecond(selectors.Product.Price)
	if err != nil {
		return ProductInfo{}, fmt.Errorf("failed to read product price: %w", err)
	}

	shipping, err := p.preferSecond(selectors.Product.ShippingInfo)
	if err != nil {
		return ProductInfo{}, fmt.Errorf("failed to read shipping info: %w", err)
	}

	info := ProductInfo{Title: title, Price: price, Shipping: shipping}
	p.log.Info("Product info collected",
		zap.String("title", info.Title),
		zap.String("price", info.Price),
		zap.String("shipping", info.Shipping))
	return info, nil
}

func (p *ProductPage) preferSecond(selector string) (string, error) {
	loc := p.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return "", err
	}
	if count >= 2 {
		return loc.Nth(1).InnerText()
	}
	return loc.First().InnerText()
}

// AddToCart selects a purchasable option if the item has an option dropdown,
// raises the quantity, and adds the item to the cart. Returns
// ErrNoAvailableOption when every option is sold out (the dropdown is closed
// again) and ErrSoldOut when the add-to-cart button is missing entirely.
func (p *ProductPage) AddToCart(quantity int) error {
	p.log.Info("Adding to cart", zap.Int("quantity", quantity))

	if err := p.selectAvailableOption(); err != nil {
		return err
	}

	if err := p.raiseQuantity(quantity); err != nil {
		return err
	}

	// Some option widgets need an explicit confirm before the cart button.
	selectBtn := p.page.Locator(selectors.Product.SelectButton).First()
	if count, _ := p.page.Locator(selectors.Product.SelectButton).Count(); count > 0 {
		if err := selectBtn.Click(); err != nil {
			return fmt.Errorf("failed to confirm option selection: %w", err)
		}
		p.Settle()
	}

	addCart := p.page.Locator(selectors.Product.AddCart)
	count, err := addCart.Count()
	if err != nil {
		return fmt.Errorf("failed to locate add-to-cart button: %w", err)
	}
	if count == 0 {
		return ErrSoldOut
	}
	if err := addCart.Click(); err != nil {
		return fmt.Errorf("failed to click add-to-cart: %w", err)
	}
	p.HumanDelay()

	p.dismissCartPopup()

	p.log.Info("Item added to cart")
	return nil
}

// selectAvailableOption opens the option dropdown when present and picks the
// first entry not marked sold out.
func (p *ProductPage) selectAvailableOption() error {
	optionBtn := p.page.Locator(selectors.Product.OptionButton)
	count, err := optionBtn.Count()
	if err != nil {
		return fmt.Errorf("failed to locate option dropdown: %w", err)
	}
	if count == 0 {
		return nil // No options on this item.
	}

	if err := optionBtn.Click(); err != nil {
		return fmt.Errorf("failed to open option dropdown: %w", err)
	}
	p.Settle()

	options := p.page.Locator(selectors.Product.OptionDropdown)
	optionCount, err := options.Count()
	if err != nil {
		return fmt.Errorf("failed to count options: %w", err)
	}

	for i := 0; i < optionCount; i++ {
		class, err := options.Nth(i).GetAttribute("class")
		if err == nil && strings.Contains(class, "soldout") {
			continue
		}
		if err := options.Nth(i).Click(); err != nil {
			return fmt.Errorf("failed to select option %d: %w", i, err)
		}
		p.Settle()
		p.log.Debug("Option selected", zap.Int("option", i))
		return nil
	}

	p.log.Warn("Every option is sold out")
	// Close the dropdown so the page is left the way we found it.
	if err := optionBtn.Click(); err != nil {
		p.log.Warn("Failed to close option dropdown", zap.Error(err))
	}
	return ErrNoAvailableOption
}

// raiseQuantity clicks the plus button until the quantity is reached.
func (p *ProductPage) raiseQuantity(quantity int) error {
	if quantity <= 1 {
		return nil
	}

	// The plus button class varies between item templates.
	var plus playwright.Locator
	for _, sel := range selectors.Product.QuantityPlus {
		if count, _ := p.page.Locator(sel).Count(); count > 0 {
			plus = p.page.Locator(sel).First()
			break
		}
	}
	if plus == nil {
		return fmt.Errorf("quantity plus button not found")
	}

	for current := 1; current < quantity; current++ {
		if err := plus.Click(); err != nil {
			return fmt.Errorf("failed to raise quantity: %w", err)
		}
		p.Settle()
	}
	return nil
}

// dismissCartPopup closes the "added to cart" layer if it appeared. The layer
// intercepts pointer events on its overlay, hence the forced click.
func (p *ProductPage) dismissCartPopup() {
	popup := p.page.Locator(selectors.Product.PopupButton)
	count, err := popup.Count()
	if err != nil || count == 0 {
		return
	}
	if visible, _ := popup.IsVisible(); !visible {
		return
	}
	if err := popup.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)}); err != nil {
		p.log.Warn("Failed to dismiss cart popup", zap.Error(err))
		return
	}
	p.Settle()
}

// ScrollAndExplore skims the item page top to bottom and back.
func (p *ProductPage) ScrollAndExplore() error {
	p.log.Info("Exploring product page")

	for _, expr := range []string{
		"window.scrollTo(0, window.innerHeight)",
		"window.scrollTo(0, document.body.scrollHeight)",
		"window.scrollTo(0, 0)",
	} {
		if _, err := p.page.Evaluate(expr); err != nil {
			return fmt.Errorf("failed to scroll product page: %w", err)
		}
		p.HumanDelay()
	}
	return nil
}

// ClickLogo returns to the homepage.
func (p *ProductPage) ClickLogo() (*HomePage, error) {
	if err := p.clickHeaderLogo(); err != nil {
		return nil, err
	}
	return NewHomePage(p.page, p.env), nil
}

// ClickCartButton opens the shopping cart.
func (p *ProductPage) ClickCartButton() (*CartPage, error) {
	if err := p.openCartViaHeader(); err != nil {
		return nil, err
	}
	return NewCartPage(p.page, p.env), nil
}

// ClickLoginButton signs in via the header; returns the product page itself
// on success.
func (p *ProductPage) ClickLoginButton(username, password string) (*ProductPage, error) {
	if err := p.loginViaHeader(username, password); err != nil {
		return nil, err
	}
	return p, nil
}

// Logout ends the session and returns the resulting homepage.
func (p *ProductPage) Logout() (*HomePage, error) {
	if err := p.logoutViaHeader(); err != nil {
		return nil, err
	}
	return NewHomePage(p.page, p.env), nil
}
