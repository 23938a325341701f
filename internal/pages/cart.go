package pages

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// CartItem is one row of the shopping cart.
type CartItem struct {
	Index int // 1-based position in the cart
	Title string
	Price string
}

// OrderSummary is the itemized payment breakdown shown next to the cart.
type OrderSummary struct {
	ItemPrice   int
	ShippingFee int
	Discount    int
	Total       int
}

// CartPage models the shopping cart page.
type CartPage struct {
	BasePage

	// The cart confirms actions with browser dialogs. One handler is
	// registered per page; deletions want the dialog accepted, quantity
	// edits want it dismissed and surfaced as a rejection.
	mu            sync.Mutex
	dialogHooked  bool
	captureDialog bool
	dialogMsg     chan string
}

func NewCartPage(page playwright.Page, env Env) *CartPage {
	return &CartPage{
		BasePage:  newBase(page, env, "pages.cart"),
		dialogMsg: make(chan string, 1),
	}
}

// ShouldBeOnCartPage verifies the URL and the cart container.
func (c *CartPage) ShouldBeOnCartPage() error {
	if !strings.Contains(strings.ToLower(c.CurrentURL()), "cart") {
		return fmt.Errorf("not on the cart page, at %q", c.CurrentURL())
	}
	if err := c.ShouldSeeElement(selectors.Cart.Container); err != nil {
		return err
	}
	c.Settle()
	return nil
}

// GetCartItems reads every cart row. An empty cart yields an empty slice,
// never nil.
func (c *CartPage) GetCartItems() ([]CartItem, error) {
	rows := c.page.Locator(selectors.Cart.Items)
	count, err := rows.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count cart items: %w", err)
	}

	items := make([]CartItem, 0, count)
	if count == 0 {
		c.log.Info("Cart is empty")
		return items, nil
	}

	for i := 0; i < count; i++ {
		row := rows.Nth(i)
		title, err := row.Locator(selectors.Cart.ItemTitle).InnerText()
		if err != nil {
			return items, fmt.Errorf("failed to read title of cart row %d: %w", i+1, err)
		}
		price, err := row.Locator(selectors.Cart.ItemPrice).InnerText()
		if err != nil {
			return items, fmt.Errorf("failed to read price of cart row %d: %w", i+1, err)
		}
		items = append(items, CartItem{Index: i + 1, Title: title, Price: price})
	}

	c.log.Info("Cart items collected", zap.Int("count", len(items)))
	return items, nil
}

// ensureDialogHandler registers the page-wide dialog handler once. Outside a
// quantity edit, confirmation dialogs (deletions) are accepted; during one,
// a dialog is a rejection of the typed value, so it is dismissed and recorded
// for UpdateQuantity to report.
func (c *CartPage) ensureDialogHandler() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialogHooked {
		return
	}
	c.dialogHooked = true

	c.page.OnDialog(func(dialog playwright.Dialog) {
		c.mu.Lock()
		capture := c.captureDialog
		c.mu.Unlock()

		if capture {
			c.log.Info("Dismissing dialog raised during quantity edit",
				zap.String("message", dialog.Message()))
			select {
			case c.dialogMsg <- dialog.Message():
			default:
			}
			if err := dialog.Dismiss(); err != nil {
				c.log.Warn("Failed to dismiss dialog", zap.Error(err))
			}
			return
		}

		c.log.Debug("Accepting cart dialog", zap.String("message", dialog.Message()))
		if err := dialog.Accept(); err != nil {
			c.log.Warn("Failed to accept dialog", zap.Error(err))
		}
	})
}

// beginDialogCapture switches the handler to dismiss-and-record for the
// duration of a quantity edit.
func (c *CartPage) beginDialogCapture() {
	c.mu.Lock()
	c.captureDialog = true
	c.mu.Unlock()

	// Drop anything left over from an earlier edit.
	select {
	case <-c.dialogMsg:
	default:
	}
}

func (c *CartPage) endDialogCapture() {
	c.mu.Lock()
	c.captureDialog = false
	c.mu.Unlock()
}

// rejection reports whether a dialog fired during the current quantity edit.
func (c *CartPage) rejection() (string, bool) {
	select {
	case msg := <-c.dialogMsg:
		return msg, true
	default:
		return "", false
	}
}

// RemoveItem deletes the 1-based index-th cart row. The index is validated
// against a fresh read of the cart; an out-of-range index returns
// ErrItemIndex without touching the page.
func (c *CartPage) RemoveItem(index int) error {
	c.log.Info("Removing cart item", zap.Int("index", index))

	items, err := c.GetCartItems()
	if err != nil {
		return err
	}
	if index < 1 || index > len(items) {
		return fmt.Errorf("%w: index %d, cart has %d items", ErrItemIndex, index, len(items))
	}

	c.ensureDialogHandler()

	removeBtn := c.page.Locator(selectors.Cart.ItemRemove).Nth(index - 1)
	if err := removeBtn.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("failed to scroll to cart row %d: %w", index, err)
	}
	c.HumanDelay()

	if err := removeBtn.Click(); err != nil {
		return fmt.Errorf("failed to click remove on cart row %d: %w", index, err)
	}
	c.HumanDelay()

	c.log.Info("Cart item removed", zap.Int("index", index))
	return nil
}

// ClearCart removes every item via select-all + delete-selected. An already
// empty cart (no select-all checkbox) is a no-op success.
func (c *CartPage) ClearCart() error {
	c.log.Info("Clearing cart")

	selectAll := c.page.Locator(selectors.Cart.SelectAll)
	visible, err := selectAll.IsVisible()
	if err != nil {
		return fmt.Errorf("failed to check cart state: %w", err)
	}
	if !visible {
		c.log.Info("Cart is already empty")
		return nil
	}

	if err := selectAll.Check(); err != nil {
		return fmt.Errorf("failed to select all cart items: %w", err)
	}
	c.HumanDelay()

	c.ensureDialogHandler()

	if err := c.page.Locator(selectors.Cart.RemoveSelected).Click(); err != nil {
		return fmt.Errorf("failed to delete selected items: %w", err)
	}
	c.HumanDelay()

	c.log.Info("Cart cleared")
	return nil
}

// UpdateQuantity sets the 1-based index-th row to the given quantity by
// typing directly into the quantity field. A quantity equal to the current
// value succeeds immediately without touching the page; an out-of-range index
// returns ErrItemIndex without clicks. If the cart raises a confirmation
// dialog over the edit, the dialog is dismissed and ErrQuantityRejected is
// returned with the dialog's message.
func (c *CartPage) UpdateQuantity(index, quantity int) error {
	c.log.Info("Updating quantity", zap.Int("index", index), zap.Int("quantity", quantity))

	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	rows := c.page.Locator(selectors.Cart.Items)
	count, err := rows.Count()
	if err != nil {
		return fmt.Errorf("failed to count cart items: %w", err)
	}
	if index < 1 || index > count {
		return fmt.Errorf("%w: index %d, cart has %d items", ErrItemIndex, index, count)
	}

	field := c.page.Locator(selectors.Cart.Quantity).Nth(index - 1)
	current, err := field.InputValue()
	if err != nil {
		return fmt.Errorf("failed to read current quantity: %w", err)
	}
	if current == strconv.Itoa(quantity) {
		c.log.Info("Quantity already at target, nothing to do")
		return nil
	}

	c.ensureDialogHandler()
	c.beginDialogCapture()
	defer c.endDialogCapture()

	if err := field.Click(); err != nil {
		return fmt.Errorf("failed to focus quantity field: %w", err)
	}
	if err := c.page.Keyboard().Press("Control+a"); err != nil {
		return fmt.Errorf("failed to select quantity value: %w", err)
	}
	err = field.Type(strconv.Itoa(quantity), playwright.LocatorTypeOptions{
		Delay: playwright.Float(c.env.Pace.TypingDelay()),
	})
	if err != nil {
		return fmt.Errorf("failed to type quantity: %w", err)
	}

	// Click elsewhere so the field commits the new value.
	if err := c.page.Locator(selectors.Cart.Container).Click(); err != nil {
		return fmt.Errorf("failed to commit quantity: %w", err)
	}

	// The cart updates the field asynchronously after the server confirms,
	// and a rejection dialog fires asynchronously too.
	deadline := time.Now().Add(c.env.Timeouts.Element)
	for {
		if msg, ok := c.rejection(); ok {
			return fmt.Errorf("%w: %s", ErrQuantityRejected, strings.TrimSpace(msg))
		}

		value, readErr := field.InputValue()
		if readErr == nil && value == strconv.Itoa(quantity) {
			c.log.Info("Quantity updated", zap.Int("index", index), zap.Int("quantity", quantity))
			return nil
		}

		if time.Now().After(deadline) {
			if msg, ok := c.rejection(); ok {
				return fmt.Errorf("%w: %s", ErrQuantityRejected, strings.TrimSpace(msg))
			}
			if readErr != nil {
				return fmt.Errorf("failed to read quantity of row %d: %w", index, readErr)
			}
			return fmt.Errorf("quantity of row %d did not reach %d (still %q)", index, quantity, value)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// GetTotalPrice returns the cart total as an integer won amount. The second
// return is false when the cart is empty or the summary is missing.
func (c *CartPage) GetTotalPrice() (int, bool) {
	items, err := c.GetCartItems()
	if err != nil || len(items) == 0 {
		return 0, false
	}

	summary := c.page.Locator(selectors.Cart.OrderSummary)
	text, err := summary.Locator(selectors.Cart.TotalPrice).InnerText()
	if err != nil {
		c.log.Warn("Failed to read cart total", zap.Error(err))
		return 0, false
	}

	total, err := ParseKRW(text)
	if err != nil {
		c.log.Warn("Failed to parse cart total", zap.String("text", text), zap.Error(err))
		return 0, false
	}

	c.log.Info("Cart total read", zap.Int("total", total))
	return total, true
}

// GetOrderSummary reads the itemized payment breakdown. Lines that are absent
// or unparseable come back as zero.
func (c *CartPage) GetOrderSummary() (OrderSummary, error) {
	box := c.page.Locator(selectors.Cart.OrderSummary)
	if err := c.ShouldSeeElement(selectors.Cart.OrderSummary); err != nil {
		return OrderSummary{}, err
	}

	var summary OrderSummary

	fees := box.Locator(selectors.Cart.ShippingFee)
	if text, err := fees.Nth(0).InnerText(); err == nil {
		summary.ItemPrice, _ = ParseKRW(text)
	}
	if count, _ := fees.Count(); count >= 2 {
		if text, err := fees.Nth(1).InnerText(); err == nil {
			summary.ShippingFee, _ = ParseKRW(text)
		}
	}
	if text, err := box.Locator(selectors.Cart.DiscountAmount).InnerText(); err == nil {
		summary.Discount, _ = ParseKRW(text)
	}
	if text, err := box.Locator(selectors.Cart.TotalPrice).InnerText(); err == nil {
		summary.Total, _ = ParseKRW(text)
	}

	c.log.Info("Order summary read",
		zap.Int("item_price", summary.ItemPrice),
		zap.Int("shipping", summary.ShippingFee),
		zap.Int("discount", summary.Discount),
		zap.Int("total", summary.Total))
	return summary, nil
}

// ProceedToCheckout clicks the order button and waits for the checkout page.
// Payment completion is out of scope; callers stop at the checkout URL.
func (c *CartPage) ProceedToCheckout() error {
	c.log.Info("Proceeding to checkout")

	checkout := c.page.Locator(selectors.Cart.CheckoutButton)
	if err := c.WaitVisible(selectors.Cart.CheckoutButton); err != nil {
		return err
	}
	enabled, err := checkout.IsEnabled()
	if err != nil {
		return fmt.Errorf("failed to check checkout button: %w", err)
	}
	if !enabled {
		return fmt.Errorf("checkout button is disabled")
	}

	if err := checkout.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("failed to scroll to checkout button: %w", err)
	}
	c.HumanDelay()

	if err := checkout.Click(); err != nil {
		return fmt.Errorf("failed to click checkout: %w", err)
	}
	if err := c.ShouldHaveURL(c.env.Site.CheckoutPattern); err != nil {
		return fmt.Errorf("checkout page did not load: %w", err)
	}
	c.Settle()
	return nil
}

// ClickLogo returns to the homepage. The cart uses its own logo markup.
func (c *CartPage) ClickLogo() (*HomePage, error) {
	if err := c.SafeClick(selectors.Cart.Logo); err != nil {
		return nil, err
	}
	return NewHomePage(c.page, c.env), nil
}

// ClickLoginButton signs in via the header; returns the cart page itself on
// success.
func (c *CartPage) ClickLoginButton(username, password string) (*CartPage, error) {
	if err := c.loginViaHeader(username, password); err != nil {
		return nil, err
	}
	return c, nil
}

// Logout ends the session and returns the resulting homepage.
func (c *CartPage) Logout() (*HomePage, error) {
	if err := c.logoutViaHeader(); err != nil {
		return nil, err
	}
	return NewHomePage(c.page, c.env), nil
}
