package udaxgui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/udaxgui/media"
	"github.com/eringen/udaxgui/views"
)

const uploadField = "file"

// saveUpload validates and stores the multipart upload in uploadField.
// The returned code is the HTTP status to report on failure.
func (a *App) saveUpload(c echo.Context) (media.Image, int, error) {
	if !a.uploadLimiter.Allow(c.RealIP()) {
		return media.Image{}, http.StatusTooManyRequests, errors.New("Too many uploads. Try again later.")
	}
	file, err := c.FormFile(uploadField)
	if err != nil {
		return media.Image{}, http.StatusBadRequest, errors.New("No file provided")
	}
	if file.Size > a.Media.MaxSize {
		return media.Image{}, http.StatusBadRequest, fmt.Errorf("File too large (max %s)", a.Media.LimitText())
	}
	src, err := file.Open()
	if err != nil {
		return media.Image{}, http.StatusInternalServerError, err
	}
	defer src.Close()

	img, err := a.Media.Save(file.Filename, file.Header.Get(echo.HeaderContentType), src)
	switch {
	case errors.Is(err, media.ErrUnsupportedImage):
		return media.Image{}, http.StatusBadRequest, errors.New("Invalid file type")
	case errors.Is(err, media.ErrImageTooLarge):
		return media.Image{}, http.StatusBadRequest, fmt.Errorf("File too large (max %s)", a.Media.LimitText())
	case err != nil:
		return media.Image{}, http.StatusInternalServerError, err
	}
	a.logger.Info("image uploaded", "filename", img.Filename, "size", img.HumanSize(), "ip", c.RealIP())
	return img, http.StatusOK, nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	img, code, err := a.saveUpload(c)
	if code >= 500 {
		return err
	}
	msg := "Байршууллаа: " + img.URL
	if err != nil {
		msg = err.Error()
	}
	if err := setFlash(c, msg); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := pathParam(c.Param("filename"))
	err := a.Media.Delete(filename)
	switch {
	case errors.Is(err, media.ErrInvalidFilename):
		return c.String(http.StatusBadRequest, "Filename required")
	case errors.Is(err, media.ErrNotFound):
		// already gone
	case err != nil:
		return err
	default:
		a.logger.Info("image deleted", "filename", filename)
	}
	if err := setFlash(c, "Устгалаа: "+filename); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images/")
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Media.List()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(views.ImagesPage{
		Page:    a.page("Зургууд", ""),
		Images:  images,
		Message: a.popFlash(c),
		MaxSize: a.Media.LimitText(),
		CSRF:    CsrfToken(c),
	}))
}

func (a *App) apiUpload(c echo.Context) error {
	img, code, err := a.saveUpload(c)
	if err != nil {
		if code >= 500 {
			a.logger.Error("upload failed", "error", err)
			return jsonError(c, code, "Upload failed")
		}
		return jsonError(c, code, err.Error())
	}
	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		URL:      img.URL,
		Filename: img.Filename,
		Size:     img.HumanSize(),
	})
}

func (a *App) apiUploadInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, uploadInfo{
		Message:      "Upload endpoint ready",
		Supports:     []string{http.MethodPost},
		MaxSize:      a.Media.LimitText(),
		AllowedTypes: media.AllowedTypes,
	})
}

// apiImages lists uploaded image URLs. A listing failure reads as empty.
func (a *App) apiImages(c echo.Context) error {
	images, err := a.Media.List()
	if err != nil {
		a.logger.Warn("list images failed", "error", err)
		images = nil
	}
	return c.JSON(http.StatusOK, imagesResponse{Images: imageURLs(images)})
}
