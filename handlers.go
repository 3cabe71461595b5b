package udaxgui

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/views"
)

const relatedPosts = 3

func (a *App) handleHome(c echo.Context) error {
	published := blog.Published(a.Cache.Snapshot(c.Request().Context()))
	active := activeCategory(c.QueryParam("category"))
	featured, ok := blog.SelectFeatured(published)
	return Render(c, a.Views.Home(views.HomePage{
		Page:        a.page("", a.Config.Description),
		Featured:    featured,
		HasFeatured: ok,
		Posts:       blog.FilterByCategory(published, active),
		Categories:  blog.AggregateCategories(blog.Predefined(), published),
		Active:      active,
	}))
}

func (a *App) handleArticles(c echo.Context) error {
	published := blog.Published(a.Cache.Snapshot(c.Request().Context()))
	active := activeCategory(c.QueryParam("category"))
	heading := "Бүх нийтлэл"
	if active != blog.AllLabel {
		heading = active
	}
	return Render(c, a.Views.Articles(views.ListPage{
		Page:       a.page(heading, ""),
		Heading:    heading,
		Posts:      blog.FilterByCategory(published, active),
		Categories: blog.AggregateCategories(blog.Predefined(), published),
		Active:     active,
	}))
}

func (a *App) handleCategory(c echo.Context) error {
	published := blog.Published(a.Cache.Snapshot(c.Request().Context()))
	cats := blog.AggregateCategories(blog.Predefined(), published)
	cat, ok := blog.FindCategory(cats, pathParam(c.Param("slug")))
	if !ok {
		return a.renderNotFound(c)
	}
	if cat.Name == blog.AllLabel {
		return c.Redirect(http.StatusSeeOther, "/articles/")
	}
	return Render(c, a.Views.Category(views.ListPage{
		Page:       a.page(cat.Name, ""),
		Heading:    cat.Name,
		Posts:      blog.FilterByCategory(published, cat.Name),
		Categories: cats,
		Active:     cat.Name,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	published := blog.Published(a.Cache.Snapshot(c.Request().Context()))
	post, ok := blog.FindBySlug(published, pathParam(c.Param("slug")))
	if !ok {
		return a.renderNotFound(c)
	}
	cats := blog.AggregateCategories(blog.Predefined(), published)
	slug := ""
	if post.Category != "" {
		slug = blog.CategorySlug(cats, post.Category)
	}
	return Render(c, a.Views.Post(views.PostPage{
		Page:         a.page(post.Title, post.Description()),
		Post:         post,
		CategorySlug: slug,
		Related:      blog.Related(post, published, relatedPosts),
	}))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, blog.Published(a.Cache.Snapshot(c.Request().Context())))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !isAPI(c) {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		if isAPI(c) {
			_ = c.JSON(code, apiError{Error: http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.page("Алдаа", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
