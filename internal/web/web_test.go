package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pixelcanvas/internal/factory"
	"github.com/mcoot/pixelcanvas/internal/web"
	"github.com/mcoot/pixelcanvas/internal/web/templates/pages"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	router := web.NewRouter(web.RouterConfig{
		Logger:        app.Logger,
		Clock:         app.Clock,
		AuthService:   app.AuthService,
		CanvasService: app.CanvasService,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

// browser is one client with its own cookies
type browser struct {
	ts      *webTestServer
	cookies *cookieJar
}

func (ts *webTestServer) browser() *browser {
	return &browser{ts: ts, cookies: newCookieJar()}
}

// request makes an HTTP request and returns the response
func (b *browser) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	b.cookies.addTo(req)

	rr := httptest.NewRecorder()
	b.ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	b.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.request(http.MethodPost, path, form)
}

// followRedirect follows a redirect and returns the response
func (b *browser) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.ts.t.Helper()
	require.Equal(b.ts.t, http.StatusSeeOther, rr.Code, "Expected redirect")
	location := rr.Header().Get("Location")
	require.NotEmpty(b.ts.t, location, "Expected Location header for redirect")
	return b.get(location)
}

// register signs up through the form and returns the page after redirect
func (b *browser) register(name string) *goquery.Document {
	b.ts.t.Helper()
	rr := b.post("/auth/register", url.Values{"name": {name}, "password": {"secret-" + name}})
	require.True(b.ts.t, b.cookies.hasSession(), "Expected session cookie to be set")
	return parseHTML(b.followRedirect(rr).Body)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}

func TestCanvasPageAnonymous(t *testing.T) {
	ts := newWebTestServer(t)
	rr := ts.browser().get("/")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "no-cache, no-store, must-revalidate, max-age=0", rr.Header().Get("Cache-Control"))

	doc := parseHTML(rr.Body)
	c := doc.Find("#pixel-canvas")
	require.Equal(t, 1, c.Length())
	assert.Equal(t, "10", c.AttrOr("data-width", ""))
	assert.Equal(t, "10", c.AttrOr("data-height", ""))
	assert.Equal(t, "false", c.AttrOr("data-editable", ""))

	assertContainsElement(t, doc, "#login-form")
	assertContainsElement(t, doc, "#register-form")
	assertNotContainsElement(t, doc, "#color-picker")
	assertContainsElement(t, doc, `script[src="/static/canvas.js"]`)
}

func TestRegisterShowsToolbar(t *testing.T) {
	ts := newWebTestServer(t)
	doc := ts.browser().register("alice")

	assertContainsText(t, doc, ".flash-success", "Welcome, alice")
	assertContainsText(t, doc, ".nav-actor", "alice")
	assertContainsElement(t, doc, "#color-picker")
	assert.Equal(t, len(pages.Palette), doc.Find(".palette .swatch").Length())
	assert.Equal(t, "true", doc.Find("#pixel-canvas").AttrOr("data-editable", ""))
	assertNotContainsElement(t, doc, "#login-form")

	// First actor is the bootstrap admin
	assertContainsElement(t, doc, `a.nav-admin[href="/admin"]`)
}

func TestSecondActorHasNoDashboardLink(t *testing.T) {
	ts := newWebTestServer(t)
	ts.browser().register("alice")
	doc := ts.browser().register("bob")

	assertContainsText(t, doc, ".nav-actor", "bob")
	assertNotContainsElement(t, doc, "a.nav-admin")
}

func TestFlashShownOnce(t *testing.T) {
	ts := newWebTestServer(t)
	b := ts.browser()
	b.register("alice")

	doc := parseHTML(b.get("/").Body)
	assertNotContainsElement(t, doc, ".flash")
}

func TestRegisterValidationError(t *testing.T) {
	ts := newWebTestServer(t)
	b := ts.browser()

	rr := b.post("/auth/register", url.Values{"name": {"alice"}, "password": {"ab"}})
	assert.False(t, b.cookies.hasSession())

	doc := parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "password must be at least 4 characters")
}

func TestRegisterMultiBytePasswordTooLong(t *testing.T) {
	ts := newWebTestServer(t)
	b := ts.browser()

	rr := b.post("/auth/register", url.Values{"name": {"alice"}, "password": {strings.Repeat("é", 60)}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, b.cookies.hasSession())

	doc := parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "72 bytes")
}

func TestRegisterDuplicateName(t *testing.T) {
	ts := newWebTestServer(t)
	ts.browser().register("alice")

	b := ts.browser()
	rr := b.post("/auth/register", url.Values{"name": {"alice"}, "password": {"another"}})
	doc := parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Name is already taken")
}

func TestLoginAndLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.browser().register("alice")

	b := ts.browser()
	rr := b.post("/auth/login", url.Values{"name": {"alice"}, "password": {"secret-alice"}})
	require.True(t, b.cookies.hasSession())
	token := b.cookies.cookies["session"].Value
	doc := parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Welcome back, alice")

	rr = b.post("/auth/logout", nil)
	assert.False(t, b.cookies.hasSession())
	doc = parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-info", "logged out")
	assertContainsElement(t, doc, "#login-form")

	_, err := ts.app.AuthService.ValidateSession(token)
	assert.Error(t, err, "logout invalidates the server-side session")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.browser().register("alice")

	b := ts.browser()
	rr := b.post("/auth/login", url.Values{"name": {"alice"}, "password": {"nope"}})
	assert.False(t, b.cookies.hasSession())
	doc := parseHTML(b.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Invalid name or password")
}

func TestNamesAreEscaped(t *testing.T) {
	ts := newWebTestServer(t)
	doc := ts.browser().register("<b>eve</b>")

	assertNotContainsElement(t, doc, ".nav-actor b")
	assertContainsText(t, doc, ".nav-actor", "<b>eve</b>")
}

func TestStaticAssetsServed(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.browser().get("/static/canvas.js")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/v1/canvas")

	rr = ts.browser().get("/static/canvas.css")
	assert.Equal(t, http.StatusOK, rr.Code)
}
