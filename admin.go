package udaxgui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
	"github.com/eringen/udaxgui/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	all := a.Posts.List(ctx)
	active := activeCategory(c.QueryParam("category"))
	published, featured := countPosts(all)
	return Render(c, a.Views.AdminDashboard(views.AdminPage{
		Page:           a.page("Удирдлага", ""),
		Groups:         blog.GroupByCategory(blog.FilterByCategory(all, active)),
		Categories:     blog.AggregateCategories(blog.Predefined(), all),
		Active:         active,
		Message:        a.popFlash(c),
		CSRF:           CsrfToken(c),
		Total:          len(all),
		PublishedCount: published,
		FeaturedCount:  featured,
	}))
}

func (a *App) handleAdminNew(c echo.Context) error {
	return a.renderAdminForm(c, http.StatusOK, blog.Post{Published: true}, true, "")
}

func (a *App) handleAdminPost(c echo.Context) error {
	post, err := a.Posts.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return a.renderNotFound(c)
	}
	return a.renderAdminForm(c, http.StatusOK, post, false, "")
}

func (a *App) renderAdminForm(c echo.Context, code int, post blog.Post, isNew bool, msg string) error {
	ctx := c.Request().Context()
	images, err := a.Media.List()
	if err != nil {
		a.logger.Warn("list images failed", "error", err)
	}
	title := "Шинэ нийтлэл"
	if !isNew {
		title = post.Title
	}
	return RenderStatus(c, code, a.Views.AdminForm(views.FormPage{
		Page:       a.page(title, ""),
		Post:       post,
		IsNew:      isNew,
		Categories: a.Posts.Categories(ctx),
		Images:     images,
		Error:      msg,
		CSRF:       CsrfToken(c),
	}))
}

// handleAdminSave creates a post when the form has no id and updates the
// post otherwise. Validation failures re-render the form with the message.
func (a *App) handleAdminSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	ctx := c.Request().Context()
	form := formPost(c)
	published := c.FormValue("published") != ""
	featured := c.FormValue("featured") != ""
	id := strings.TrimSpace(c.FormValue("id"))

	var (
		saved blog.Post
		err   error
	)
	if id == "" {
		saved, err = a.Posts.Create(ctx, blog.PostInput{
			Title:           form.Title,
			Slug:            form.Slug,
			Excerpt:         form.Excerpt,
			Content:         form.Content,
			Category:        form.Category,
			Image:           form.Image,
			MetaDescription: form.MetaDescription,
			Published:       &published,
			Featured:        &featured,
		})
	} else {
		patch := blog.PostPatch{
			Title:           &form.Title,
			Excerpt:         &form.Excerpt,
			Content:         &form.Content,
			Category:        &form.Category,
			Image:           &form.Image,
			MetaDescription: &form.MetaDescription,
			Published:       &published,
			Featured:        &featured,
		}
		if form.Slug != "" {
			patch.Slug = &form.Slug
		}
		saved, err = a.Posts.Update(ctx, id, patch)
	}

	switch {
	case errors.Is(err, blog.ErrValidation):
		form.ID = id
		form.Published, form.Featured = published, featured
		return a.renderAdminForm(c, http.StatusUnprocessableEntity, form, id == "", err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return a.renderNotFound(c)
	case err != nil:
		return err
	}

	a.Cache.Invalidate()
	if err := setFlash(c, fmt.Sprintf("Хадгаллаа: %s", saved.Title)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// formPost reads the post fields of the admin form.
func formPost(c echo.Context) blog.Post {
	return blog.Post{
		Title:           strings.TrimSpace(c.FormValue("title")),
		Slug:            strings.TrimSpace(c.FormValue("slug")),
		Excerpt:         c.FormValue("excerpt"),
		Content:         c.FormValue("content"),
		Category:        strings.TrimSpace(c.FormValue("category")),
		Image:           strings.TrimSpace(c.FormValue("image")),
		MetaDescription: c.FormValue("metaDescription"),
	}
}

// handleAdminToggle flips published or featured through a one-field patch.
func (a *App) handleAdminToggle(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Posts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return a.renderNotFound(c)
	}
	var patch blog.PostPatch
	switch c.Param("field") {
	case "published":
		patch.Published = blog.Bool(!post.Published)
	case "featured":
		patch.Featured = blog.Bool(!post.Featured)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown toggle")
	}
	if _, err := a.Posts.Update(ctx, post.ID, patch); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	err := a.Posts.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	if err := setFlash(c, "Устгалаа"); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}
