package udaxgui

import "embed"

// EmbeddedAssets contains static assets shipped with the app:
// site.css, placeholder.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
