package udaxgui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/storage"
)

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// bindJSON decodes the request body only; route params never leak into
// the payload.
func bindJSON(c echo.Context, v any) error {
	return (&echo.DefaultBinder{}).BindBody(c, v)
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, apiError{Error: msg})
}

// writeError maps storage and validation errors to JSON responses.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, blog.ErrValidation):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return jsonError(c, http.StatusNotFound, "Post not found")
	default:
		return err
	}
}

// apiListPosts returns every post newest first, or only the public listing
// with ?published=true.
func (a *App) apiListPosts(c echo.Context) error {
	posts := a.Posts.List(c.Request().Context())
	if c.QueryParam("published") == "true" {
		posts = blog.PublicListing(posts, activeCategory(c.QueryParam("category")))
	}
	return c.JSON(http.StatusOK, posts)
}

// apiReplacePosts overwrites the whole collection with the request body.
func (a *App) apiReplacePosts(c echo.Context) error {
	var posts []blog.Post
	if err := bindJSON(c, &posts); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid JSON array")
	}
	if err := a.Posts.ReplaceAll(c.Request().Context(), posts); err != nil {
		return writeError(c, err)
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, replaceResponse{Success: true, Count: len(posts)})
}

func (a *App) apiCreatePost(c echo.Context) error {
	var in blog.PostInput
	if err := bindJSON(c, &in); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid JSON body")
	}
	post, err := a.Posts.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, post)
}

func (a *App) apiGetPost(c echo.Context) error {
	post, err := a.Posts.GetBySlug(c.Request().Context(), pathParam(c.Param("slug")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) apiUpdatePost(c echo.Context) error {
	var patch blog.PostPatch
	if err := bindJSON(c, &patch); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid JSON body")
	}
	post, err := a.Posts.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, post)
}

func (a *App) apiDeletePost(c echo.Context) error {
	if err := a.Posts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

func (a *App) apiCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, categoriesResponse{Categories: a.Posts.Categories(c.Request().Context())})
}

func (a *App) apiFeatured(c echo.Context) error {
	post, ok := blog.SelectFeatured(a.Posts.Published(c.Request().Context()))
	if !ok {
		return jsonError(c, http.StatusNotFound, "No published posts")
	}
	return c.JSON(http.StatusOK, post)
}
