package pages_test

// A miniature storefront served from httptest, shaped like the real site's
// markup so the page objects drive it through the same selectors. Browser
// tests skip when the Playwright driver is not installed on the host.

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
	"github.com/Yangsun94/Gmarket-Project/internal/pacing"
	"github.com/Yangsun94/Gmarket-Project/internal/pages"
)

const (
	fixtureUser     = "testuser"
	fixturePassword = "testpass1!"
	sessionCookie   = "gmkt_session"
)

var (
	pwOnce    sync.Once
	pwRunner  *playwright.Playwright
	pwBrowser playwright.Browser
	pwErr     error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pwBrowser != nil {
		_ = pwBrowser.Close()
	}
	if pwRunner != nil {
		_ = pwRunner.Stop()
	}
	os.Exit(code)
}

// acquireBrowser launches a shared headless Chromium once per test binary.
func acquireBrowser(t *testing.T) playwright.Browser {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	pwOnce.Do(func() {
		pwRunner, pwErr = playwright.Run()
		if pwErr != nil {
			return
		}
		pwBrowser, pwErr = pwRunner.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(true),
		})
	})
	if pwErr != nil {
		t.Skipf("playwright not available: %v", pwErr)
	}
	return pwBrowser
}

// newFixturePage returns a page in a fresh context so cookie state never
// leaks between tests.
func newFixturePage(t *testing.T) playwright.Page {
	t.Helper()
	browser := acquireBrowser(t)

	context, err := browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	t.Cleanup(func() { _ = context.Close() })

	page, err := context.NewPage()
	if err != nil {
		t.Fatalf("failed to open page: %v", err)
	}
	return page
}

// fixtureEnv wires the page objects to the fake storefront with pacing off
// and timeouts short enough to keep negative tests fast.
func fixtureEnv(t *testing.T, baseURL string) pages.Env {
	t.Helper()
	return pages.Env{
		Site: config.SiteConfig{
			BaseURL:         baseURL,
			HomeURL:         baseURL + "/",
			SearchPattern:   "**/search**",
			ItemPattern:     "**/Item**",
			CartPattern:     "**/cart/**",
			CheckoutPattern: "**/checkout**",
		},
		Timeouts: config.TimeoutsConfig{
			Element:    3 * time.Second,
			Navigation: 5 * time.Second,
			Page:       10 * time.Second,
			NewTab:     300 * time.Millisecond,
			Login:      2 * time.Second,
		},
		Pace:          pacing.Disabled(),
		Logger:        zap.NewNop(),
		ScreenshotDir: t.TempDir(),
	}
}

func startStorefront(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(storefrontHandler())
	t.Cleanup(srv.Close)
	return srv
}

func storefrontHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serveHome)
	mux.HandleFunc("/search", serveSearch)
	mux.HandleFunc("/Item", serveItem)
	mux.HandleFunc("/cart/", serveCart)
	mux.HandleFunc("/login", serveLogin)
	mux.HandleFunc("/logout", serveLogout)
	mux.HandleFunc("/checkout", serveCheckout)
	return mux
}

func isLoggedIn(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == "1"
}

func headerHTML(loggedIn bool) string {
	auth := `<a href="/login">로그인</a>`
	if loggedIn {
		auth = `<a href="/logout">로그아웃</a>`
	}
	return fmt.Sprintf(`<div id="header">
<a class="link__head" href="/">G마켓</a>
%s
<ul><li class="list-item list-item--cart" onclick="location.href='/cart/'">장바구니</li></ul>
</div>`, auth)
}

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html><html><head><title>%s</title></head><body>%s</body></html>`, title, body)
}

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	body := headerHTML(isLoggedIn(r)) + `
<form action="/search" method="get">
<input name="keyword" placeholder="검색어를 입력해주세요">
<button type="submit">검색</button>
</form>
<div id="box__category-all-layer"><ul>
<li class="list-item__1depth"><a href="#">패션의류</a></li>
<li class="list-item__1depth"><a href="#">디지털</a></li>
<li class="list-item__1depth"><a href="#">식품</a></li>
</ul></div>`
	writePage(w, "G마켓 - 쇼핑을 다 담다", body)
}

type fixtureProduct struct {
	Code  string
	Title string
	Price string
}

var fixtureResults = []fixtureProduct{
	{"1001", "무선 이어폰 프로", "29,900"},
	{"1002", "블루투스 헤드셋", "45,000"},
	{"1003", "무선 이어폰 라이트", "19,900"},
	{"1004", "유선 이어폰", "9,900"},
	{"1005", "무선 이어폰 맥스", "89,000"},
}

func serveSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	var cards strings.Builder
	if keyword != "결과없음" {
		for _, p := range fixtureResults {
			fmt.Fprintf(&cards, `<div class="box__component box__component-itemcard box__component-itemcard--general">
<a href="/Item?goodscode=%s"><img class="image__item" width="120" height="120" alt="%s"></a>
<span class="text__item">%s</span>
<strong class="text text__value">%s</strong>
</div>`, p.Code, p.Title, p.Title, p.Price)
		}
	} else {
		cards.WriteString(`<div class="box__ment">검색 결과가 없습니다.</div>`)
	}

	body := headerHTML(isLoggedIn(r)) + `<div id="container">` + cards.String() + `</div>`
	writePage(w, keyword+" : G마켓 검색", body)
}

func serveItem(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("goodscode")

	cartLayer := `<div id="cartLayer" style="display:none">
<button class="btn_round btn_gray" onclick="document.getElementById('cartLayer').style.display='none'">닫기</button>
</div>`
	addCart := `<button id="coreAddCartBtn" onclick="document.getElementById('cartLayer').style.display='block'">장바구니</button>`
	plus := `<button class="bt_increase">+</button>`

	var extra string
	switch code {
	case "soldout":
		addCart = `<span>품절된 상품입니다</span>`
	case "optsoldout":
		extra = `<div id="optOrderSel_0">
<button class="select-item_option uxeselect_btn">옵션 선택</button>
<ul><li class="soldout">블랙 (품절)</li><li class="soldout">화이트 (품절)</li></ul>
</div>`
	case "opt":
		extra = `<div id="optOrderSel_0">
<button class="select-item_option uxeselect_btn">옵션 선택</button>
<ul><li class="soldout">블랙 (품절)</li><li>화이트</li></ul>
</div>
<button class="bt_select uxeselect_btn">선택</button>`
	}

	body := headerHTML(isLoggedIn(r)) + fmt.Sprintf(`<div id="container">
<div class="box__item-info"><h1>무선 이어폰 프로</h1></div>
<span class="price_innerwrap"><strong class="price_real">29,900원</strong></span>
<div class="box__txt-information">무료배송</div>
%s
%s
%s
%s
</div>`, extra, plus, addCart, cartLayer)
	writePage(w, "무선 이어폰 프로 - G마켓", body)
}

func cartRow(title, price string, qty int, qtyAttrs string) string {
	return fmt.Sprintf(`<div class="shipping--no--group">
<div class="section item_title"><a href="#">%s</a></div>
<div class="section item_price">%s</div>
<input class="item_qty_count" value="%d"%s>
<button class="icon sprite__cart btn_cart_item_del"
 onclick="if(confirm('삭제하시겠습니까?')){this.closest('.shipping--no--group').remove();}">삭제</button>
</div>`, title, price, qty, qtyAttrs)
}

func serveCart(w http.ResponseWriter, r *http.Request) {
	// Query flags switch how the quantity field behaves on edit: confirmqty
	// raises a confirm dialog and reverts when it is dismissed, revertqty
	// silently snaps back to the old value.
	var qtyAttrs string
	switch {
	case r.URL.Query().Get("confirmqty") == "1":
		qtyAttrs = ` onchange="if(!confirm('수량을 변경하시겠습니까?')){this.value=this.defaultValue;}"`
	case r.URL.Query().Get("revertqty") == "1":
		qtyAttrs = ` onchange="this.value=this.defaultValue;"`
	}

	rows := cartRow("무선 이어폰 프로", "29,900원", 2, qtyAttrs) +
		cartRow("블루투스 헤드셋", "45,000원", 1, qtyAttrs) +
		cartRow("유선 이어폰", "9,900원", 1, qtyAttrs)

	// The bottom padding keeps the container midpoint clear of interactive
	// rows; quantity edits commit by clicking the container.
	body := headerHTML(isLoggedIn(r)) + `<div id="container" style="padding-bottom:2000px">
<h1 class="box__title-logo"><a href="/">G마켓</a></h1>
<input type="checkbox" id="item_all_select">
` + rows + `
<span onclick="if(confirm('삭제하시겠습니까?')){document.querySelectorAll('.shipping--no--group').forEach(function(g){g.remove();});document.getElementById('item_all_select').style.display='none';}">선택삭제</span>
<div id="cart_order">
<span class="format-price"><span>104,800원</span></span>
<span class="format-price"><span>2,500원</span></span>
<span class="format-price discount"><span class="box__format-amount">-1,000원</span></span>
<div class="order_summary"><span class="format-price">106,300원</span></div>
</div>
<button class="btn_submit" onclick="location.href='/checkout'">주문하기</button>
</div>`
	writePage(w, "장바구니 - G마켓", body)
}

func serveLogin(w http.ResponseWriter, r *http.Request) {
	body := fmt.Sprintf(`<div id="container">
<input id="typeMemberInputId">
<input id="typeMemberInputPassword" type="password">
<button id="btn_memberLogin" onclick="
var id=document.getElementById('typeMemberInputId').value;
var pw=document.getElementById('typeMemberInputPassword').value;
if(id===%q&&pw===%q){document.cookie='%s=1;path=/';location.href='/';}
else{location.href='/login?failed=1';}
">로그인</button>
</div>`, fixtureUser, fixturePassword, sessionCookie)
	writePage(w, "로그인 - G마켓", body)
}

func serveLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

func serveCheckout(w http.ResponseWriter, r *http.Request) {
	writePage(w, "주문결제 - G마켓", headerHTML(isLoggedIn(r))+`<div id="container">주문결제</div>`)
}
