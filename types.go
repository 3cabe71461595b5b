package udaxgui

import (
	"github.com/eringen/udaxgui/blog"
	"github.com/eringen/udaxgui/media"
)

// JSON API payloads.

type apiError struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     string `json:"size"`
}

type uploadInfo struct {
	Message      string   `json:"message"`
	Supports     []string `json:"supports"`
	MaxSize      string   `json:"maxSize"`
	AllowedTypes []string `json:"allowedTypes"`
}

type imagesResponse struct {
	Images []string `json:"images"`
}

type replaceResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type categoriesResponse struct {
	Categories []blog.Category `json:"categories"`
}

func imageURLs(images []media.Image) []string {
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}
	return urls
}
