package udaxgui

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New(SiteConfig{
		Name:          "Удахгүй",
		URL:           "https://udaxgui.test",
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
	}, ViewFuncs{}, WithAdapter(storage.NewMemory()), WithStaticDir(t.TempDir()))
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func seedPosts(t *testing.T, a *App) (live, draft, featured blog.Post) {
	t.Helper()
	ctx := context.Background()
	var err error
	live, err = a.Posts.Create(ctx, blog.PostInput{Title: "Live Post", Content: "## Body\n\n**strong**", Category: "Сайн мэдээ"})
	if err != nil {
		t.Fatal(err)
	}
	draft, err = a.Posts.Create(ctx, blog.PostInput{Title: "Draft Post", Content: "secret", Category: "Сайн мэдээ", Published: blog.Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	featured, err = a.Posts.Create(ctx, blog.PostInput{Title: "Featured Post", Content: "hero", Category: "Advent", Featured: blog.Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	a.Cache.Invalidate()
	return live, draft, featured
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return do(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func doJSON(a *App, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return do(a, req)
}

func TestHomeHidesDrafts(t *testing.T) {
	a := newTestApp(t)
	_, draft, featured := seedPosts(t, a)

	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, draft.Title) {
		t.Error("home page shows a draft")
	}
	if !strings.Contains(body, `class="hero"`) || !strings.Contains(body, featured.Title) {
		t.Error("home page missing the featured hero")
	}
}

func TestHomeCategoryFilter(t *testing.T) {
	a := newTestApp(t)
	live, _, featured := seedPosts(t, a)

	rec := get(a, "/?category="+url.QueryEscape("Сайн мэдээ"))
	body := rec.Body.String()
	grid := body[strings.Index(body, `class="articles"`):]
	if !strings.Contains(grid, live.Title) {
		t.Error("filtered list missing matching post")
	}
	if strings.Contains(grid, featured.Title) {
		t.Error("filtered list shows a post from another category")
	}
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t)
	live, draft, _ := seedPosts(t, a)

	rec := get(a, live.Link())
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", live.Link(), rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>strong</strong>") {
		t.Error("post content not rendered from markdown")
	}
	if !strings.Contains(rec.Body.String(), `href="/category/sain-medee/"`) {
		t.Error("post page missing category link")
	}

	for _, target := range []string{draft.Link(), "/post/missing/"} {
		if rec := get(a, target); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, rec.Code)
		}
	}
}

func TestCyrillicSlugRoute(t *testing.T) {
	a := newTestApp(t)
	p, err := a.Posts.Create(context.Background(), blog.PostInput{Title: "Сайн мэдээ", Content: "c"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "сайн-мэдээ" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if rec := get(a, "/post/"+url.PathEscape(p.Slug)+"/"); rec.Code != http.StatusOK {
		t.Errorf("GET cyrillic slug = %d", rec.Code)
	}
}

func TestCategoryPage(t *testing.T) {
	a := newTestApp(t)
	live, draft, _ := seedPosts(t, a)

	rec := get(a, "/category/sain-medee/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET category = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), live.Title) || strings.Contains(rec.Body.String(), draft.Title) {
		t.Error("category page should list published posts of the category only")
	}
	if rec := get(a, "/category/no-such-category/"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown category = %d, want 404", rec.Code)
	}
	if rec := get(a, "/category/all/"); rec.Code != http.StatusSeeOther {
		t.Errorf("all category = %d, want redirect", rec.Code)
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/articles")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/articles/" {
		t.Errorf("GET /articles = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestFeed(t *testing.T) {
	a := newTestApp(t)
	live, draft, _ := seedPosts(t, a)

	rec := get(a, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /feed.xml = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<link>https://udaxgui.test/post/live-post/</link>") {
		t.Errorf("feed missing live post link: %s", body)
	}
	if strings.Contains(body, draft.Title) || !strings.Contains(body, live.Title) {
		t.Error("feed should list published posts only")
	}
}

func TestAPIPostLifecycle(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(a, http.MethodPost, "/api/posts", map[string]any{"title": "API Post", "content": "body", "category": "Advent"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	var created blog.Post
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Slug != "api-post" || !created.Published {
		t.Fatalf("created = %+v", created)
	}

	if rec := get(a, "/api/posts/api-post"); rec.Code != http.StatusOK {
		t.Errorf("get by slug = %d", rec.Code)
	}
	if rec := get(a, "/"); !strings.Contains(rec.Body.String(), "API Post") {
		t.Error("home page should reflect the new post after a write")
	}

	rec = doJSON(a, http.MethodPatch, "/api/posts/"+created.ID, map[string]any{"published": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch = %d %s", rec.Code, rec.Body.String())
	}
	if rec := get(a, "/api/posts/api-post"); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished get by slug = %d, want 404", rec.Code)
	}

	var published []blog.Post
	json.Unmarshal(get(a, "/api/posts?published=true").Body.Bytes(), &published)
	if len(published) != 0 {
		t.Errorf("published listing = %+v, want empty", published)
	}
	var all []blog.Post
	json.Unmarshal(get(a, "/api/posts").Body.Bytes(), &all)
	if len(all) != 1 {
		t.Errorf("full listing has %d posts, want 1", len(all))
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/"+created.ID, nil)
	if rec := do(a, req); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/posts/"+created.ID, nil)
	if rec := do(a, req); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestAPIValidation(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(a, http.MethodPost, "/api/posts", map[string]any{"title": "No content"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create without content = %d", rec.Code)
	}
	var e apiError
	json.Unmarshal(rec.Body.Bytes(), &e)
	if !strings.Contains(e.Error, "content") {
		t.Errorf("error = %q", e.Error)
	}

	if rec := doJSON(a, http.MethodPatch, "/api/posts/missing", map[string]any{"title": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("patch missing = %d, want 404", rec.Code)
	}
}

func TestAPIReplaceAll(t *testing.T) {
	a := newTestApp(t)
	seedPosts(t, a)

	rec := doJSON(a, http.MethodPut, "/api/posts", []map[string]any{{"title": "Only", "content": "c"}, {"title": "Broken"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid bulk write = %d", rec.Code)
	}
	if n := len(a.Posts.List(context.Background())); n != 3 {
		t.Errorf("invalid bulk write changed the collection: %d posts", n)
	}

	rec = doJSON(a, http.MethodPut, "/api/posts", []map[string]any{{"title": "Only", "content": "c"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk write = %d %s", rec.Code, rec.Body.String())
	}
	posts := a.Posts.List(context.Background())
	if len(posts) != 1 || posts[0].Slug != "only" || !posts[0].Published {
		t.Errorf("after bulk write = %+v", posts)
	}
}

func TestAPICategoriesAndFeatured(t *testing.T) {
	a := newTestApp(t)

	if rec := get(a, "/api/featured"); rec.Code != http.StatusNotFound {
		t.Errorf("featured on empty store = %d, want 404", rec.Code)
	}

	_, _, featured := seedPosts(t, a)
	a.Posts.Create(context.Background(), blog.PostInput{Title: "Other", Content: "c", Category: "Шинэ"})

	var cats categoriesResponse
	json.Unmarshal(get(a, "/api/categories").Body.Bytes(), &cats)
	if len(cats.Categories) != len(blog.Predefined())+1 {
		t.Errorf("categories = %+v", cats.Categories)
	}

	var got blog.Post
	json.Unmarshal(get(a, "/api/featured").Body.Bytes(), &got)
	if got.ID != featured.ID {
		t.Errorf("featured = %q, want %q", got.Title, featured.Title)
	}
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	w.Close()
	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAPIUpload(t *testing.T) {
	a := newTestApp(t)

	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := do(a, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("text upload = %d", rec.Code)
	}
	if entries, _ := os.ReadDir(a.Config.UploadDir); len(entries) != 0 {
		t.Errorf("rejected upload wrote %d files", len(entries))
	}

	body, ct = multipartBody(t, "cross.png", "image/png", testPNG(t))
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec = do(a, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("png upload = %d %s", rec.Code, rec.Body.String())
	}
	var up uploadResponse
	json.Unmarshal(rec.Body.Bytes(), &up)
	if !up.Success || !strings.HasPrefix(up.URL, "/uploads/upload-") || !strings.HasSuffix(up.Filename, ".png") {
		t.Errorf("upload response = %+v", up)
	}

	var images imagesResponse
	json.Unmarshal(get(a, "/api/images").Body.Bytes(), &images)
	if len(images.Images) != 1 || images.Images[0] != up.URL {
		t.Errorf("images = %+v", images)
	}
	if rec := get(a, up.URL); rec.Code != http.StatusOK {
		t.Errorf("GET %s = %d", up.URL, rec.Code)
	}
}

// csrf fetches a page to obtain the CSRF cookie and token.
func csrf(t *testing.T, a *App) (*http.Cookie, string) {
	t.Helper()
	rec := get(a, "/admin/new/")
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			return c, c.Value
		}
	}
	t.Fatal("no _csrf cookie set")
	return nil, ""
}

func postForm(t *testing.T, a *App, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	cookie, token := csrf(t, a)
	form.Set("_csrf", token)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	return do(a, req)
}

func TestAdminRequiresCSRF(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/save/", strings.NewReader("title=x&content=y"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(a, req); rec.Code != http.StatusForbidden {
		t.Errorf("save without token = %d, want 403", rec.Code)
	}
}

func TestAdminSaveCreatesAndUpdates(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	rec := postForm(t, a, "/admin/save/", url.Values{
		"title":     {"Admin Post"},
		"content":   {"body"},
		"category":  {"Advent"},
		"published": {"1"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	posts := a.Posts.List(ctx)
	if len(posts) != 1 || posts[0].Slug != "admin-post" || !posts[0].Published || posts[0].Featured {
		t.Fatalf("after create = %+v", posts)
	}

	rec = postForm(t, a, "/admin/save/", url.Values{
		"id":       {posts[0].ID},
		"title":    {"Admin Post"},
		"slug":     {posts[0].Slug},
		"content":  {"edited"},
		"featured": {"1"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update = %d", rec.Code)
	}
	got, _ := a.Posts.GetByID(ctx, posts[0].ID)
	if got.Content != "edited" || got.Published || !got.Featured {
		t.Errorf("after update = %+v", got)
	}
}

func TestAdminSaveValidation(t *testing.T) {
	a := newTestApp(t)
	rec := postForm(t, a, "/admin/save/", url.Values{"title": {"No body"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid save = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "content is required") || !strings.Contains(rec.Body.String(), `value="No body"`) {
		t.Error("form should be re-rendered with the message and the submitted values")
	}
	if n := len(a.Posts.List(context.Background())); n != 0 {
		t.Errorf("invalid save stored %d posts", n)
	}
}

func TestAdminToggleAndDelete(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	live, _, _ := seedPosts(t, a)

	rec := postForm(t, a, "/admin/post/"+live.ID+"/toggle/published/", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("toggle = %d", rec.Code)
	}
	got, _ := a.Posts.GetByID(ctx, live.ID)
	if got.Published {
		t.Error("toggle should unpublish the post")
	}
	if rec := get(a, live.Link()); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished post page = %d, want 404", rec.Code)
	}

	if rec := postForm(t, a, "/admin/post/"+live.ID+"/toggle/bogus/", url.Values{}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown toggle = %d, want 400", rec.Code)
	}

	rec = postForm(t, a, "/admin/post/"+live.ID+"/delete/", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete = %d", rec.Code)
	}
	if _, err := a.Posts.GetByID(ctx, live.ID); err == nil {
		t.Error("post should be gone")
	}
}

func TestAdminDashboardShowsDrafts(t *testing.T) {
	a := newTestApp(t)
	_, draft, _ := seedPosts(t, a)
	rec := get(a, "/admin/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin/ = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), draft.Title) {
		t.Error("dashboard should list drafts")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("admin Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestEmbeddedPlaceholder(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, blog.PlaceholderImage)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("GET placeholder = %d", rec.Code)
	}
}

func TestSetupRequiresSecret(t *testing.T) {
	a := New(SiteConfig{}, ViewFuncs{}, WithAdapter(storage.NewMemory()))
	if err := a.Setup(); err == nil {
		t.Error("Setup without SessionSecret should fail")
	}
}

func TestDefaultCollectionIsNotServed(t *testing.T) {
	t.Chdir(t.TempDir())
	a := New(SiteConfig{SessionSecret: "test-secret"}, ViewFuncs{})
	if err := a.Setup(); err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	ctx := context.Background()

	draft, err := a.Posts.Create(ctx, blog.PostInput{Title: "Hidden", Content: "TOP-SECRET-BODY", Published: blog.Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(storage.DefaultDataFile); err != nil {
		t.Fatalf("collection not written to %s: %v", storage.DefaultDataFile, err)
	}

	for _, target := range []string{
		draft.Link(),
		"/public/static-data/posts.json",
		"/public/posts.json",
		"/data/posts.json",
	} {
		rec := get(a, target)
		if strings.Contains(rec.Body.String(), "TOP-SECRET-BODY") {
			t.Errorf("GET %s leaked the draft (status %d)", target, rec.Code)
		}
	}

	if _, _, err := storage.Export(ctx, a.Posts.Adapter(), storage.DefaultExportDir); err != nil {
		t.Fatal(err)
	}
	rec := get(a, "/public/static-data/posts.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("exported posts.json = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "TOP-SECRET-BODY") {
		t.Error("static export must only contain published posts")
	}
}
