// Package selectors is the single registry of CSS selectors for the Gmarket
// storefront. Page objects never embed raw selectors; when the site markup
// changes, this file is the only place to touch.
package selectors

// Header selectors shared by every page.
var Header = struct {
	LoginButton  string
	LogoutButton string
	Logo         string
	CartButton   string
}{
	LoginButton:  `a:has-text("로그인")`,
	LogoutButton: `a:has-text("로그아웃")`,
	Logo:         ".link__head",
	CartButton:   "li.list-item.list-item--cart",
}

// Home covers the storefront main page.
var Home = struct {
	Header           string
	Logo             string
	SearchInput      string
	SearchButton     string
	SearchSuggestion string
	CategoryMenu     string
}{
	Header:           "#header",
	Logo:             ".link__head",
	SearchInput:      "input[name= 'keyword']",
	SearchButton:     "button[type='submit']",
	SearchSuggestion: "#skip-navigation-search",
	CategoryMenu:     "#box__category-all-layer > ul > li.list-item__1depth > a",
}

// Search covers the search result page.
var Search = struct {
	Container    string
	NoResult     string
	ProductCards string
	ProductTitle string
	ProductPrice string
	ProductImage string
	SortToggle   string
	SortLowPrice string
	PriceFilter  string
	FilterMin    string
	FilterMax    string
	FilterButton string
}{
	Container:    "#container",
	NoResult:     ".box__ment",
	ProductCards: ".box__component.box__component-itemcard.box__component-itemcard--general",
	ProductTitle: "span.text__item",
	ProductPrice: "strong.text.text__value",
	ProductImage: "img.image__item",
	SortToggle:   ".button__toggle-sort",
	SortLowPrice: `[aria-label="낮은 가격순"]`,
	PriceFilter:  ".box__component.box__component-filter.box__component-price-filter",
	FilterMin:    "input[placeholder*='최소']",
	FilterMax:    "input[placeholder*='최대']",
	FilterButton: "button.button__filter-price.montelena-post",
}

// Product covers the item detail page.
var Product = struct {
	Container      string
	Title          string
	Price          string
	ShippingInfo   string
	OptionButton   string
	OptionDropdown string
	QuantityPlus   []string
	SelectButton   string
	AddCart        string
	PopupButton    string
}{
	Container:      "#container",
	Title:          ".box__item-info > h1",
	Price:          "span.price_innerwrap > strong.price_real",
	ShippingInfo:   ".box__txt-information",
	OptionButton:   "#optOrderSel_0 > button.select-item_option.uxeselect_btn",
	OptionDropdown: "#optOrderSel_0 > ul > li",
	QuantityPlus:   []string{".bt_increase", ".bt_increase.uxeselect_btn"},
	SelectButton:   ".bt_select.uxeselect_btn",
	AddCart:        "#coreAddCartBtn",
	PopupButton:    ".btn_round.btn_gray",
}

// Cart covers the shopping cart page.
var Cart = struct {
	Container      string
	Logo           string
	Items          string
	ItemTitle      string
	ItemPrice      string
	Quantity       string
	QuantityPlus   string
	QuantityMinus  string
	SelectAll      string
	ItemRemove     string
	RemoveSelected string
	OrderSummary   string
	TotalPrice     string
	DiscountAmount string
	ShippingFee    string
	CheckoutButton string
}{
	Container:      "#container",
	Logo:           "h1.box__title-logo > a",
	Items:          ".shipping--no--group",
	ItemTitle:      "div.section.item_title > a",
	ItemPrice:      "div.section.item_price",
	Quantity:       ".item_qty_count",
	QuantityPlus:   ".btn_plus.sprite__cart",
	QuantityMinus:  ".btn_minus.sprite__cart",
	SelectAll:      "#item_all_select",
	ItemRemove:     ".icon.sprite__cart.btn_cart_item_del",
	RemoveSelected: `span:has-text("선택삭제")`,
	OrderSummary:   "#cart_order",
	TotalPrice:     ".order_summary > span.format-price",
	DiscountAmount: ".format-price.discount > span.box__format-amount",
	ShippingFee:    "span.format-price > span",
	CheckoutButton: "button.btn_submit",
}

// Login covers the member login page.
var Login = struct {
	IDInput       string
	PasswordInput string
	LoginButton   string
	LogoutButton  string
}{
	IDInput:       "#typeMemberInputId",
	PasswordInput: "#typeMemberInputPassword",
	LoginButton:   "#btn_memberLogin",
	LogoutButton:  `a:has-text("로그아웃")`,
}
