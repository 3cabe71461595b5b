// Package media stores uploaded post images on local disk.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20 // 10MB

// AllowedTypes lists the accepted upload content types.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// imageExtensions are the files List reports. svg is listed but never
// accepted as an upload.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp"}

var extByFormat = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrNotFound         = errors.New("image not found")
)

// Image describes one stored upload.
type Image struct {
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
}

// HumanSize formats Size for display, e.g. "82 kB".
func (i Image) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Store keeps uploads in a single flat directory served under URLPrefix.
type Store struct {
	Dir       string
	URLPrefix string
	MaxSize   int64

	mu  sync.Mutex
	now func() time.Time
}

// NewStore returns a Store writing to dir. Files are addressed as
// urlPrefix + "/" + filename.
func NewStore(dir, urlPrefix string) *Store {
	return &Store{
		Dir:       dir,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
		MaxSize:   MaxUploadSize,
		now:       time.Now,
	}
}

// LimitText describes the size cap for error messages.
func (s *Store) LimitText() string {
	return humanize.Bytes(uint64(s.MaxSize))
}

// Validate checks a candidate upload without writing it. declaredType is the
// client supplied content type and may be empty. It returns the file
// extension the upload will be stored under.
func (s *Store) Validate(name, declaredType string, data []byte) (string, error) {
	if int64(len(data)) > s.MaxSize {
		return "", fmt.Errorf("%w: max %s", ErrImageTooLarge, s.LimitText())
	}
	if declaredType != "" && !slices.Contains(AllowedTypes, strings.ToLower(declaredType)) {
		return "", fmt.Errorf("%w: declared %s", ErrUnsupportedImage, declaredType)
	}
	sniffed := http.DetectContentType(data)
	if !slices.Contains(AllowedTypes, sniffed) {
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedImage, sniffed)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	ext := strings.ToLower(filepath.Ext(name))
	want := extByFormat[format]
	if ext == want || (want == ".jpg" && ext == ".jpeg") {
		return ext, nil
	}
	return want, nil
}

// Save validates r and writes it as upload-<unix millis><ext>.
func (s *Store) Save(name, declaredType string, r io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.MaxSize+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload: %w", err)
	}
	ext, err := s.Validate(name, declaredType, data)
	if err != nil {
		return Image{}, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create upload dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	for {
		filename := fmt.Sprintf("upload-%d%s", ts, ext)
		path := filepath.Join(s.Dir, filename)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			ts++
			continue
		}
		if err != nil {
			return Image{}, fmt.Errorf("create %s: %w", filename, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return Image{}, fmt.Errorf("write %s: %w", filename, err)
		}
		if err := f.Close(); err != nil {
			return Image{}, err
		}
		return Image{
			Filename: filename,
			URL:      s.URL(filename),
			Size:     int64(len(data)),
			ModTime:  s.now().UTC(),
		}, nil
	}
}

// URL returns the public path of filename.
func (s *Store) URL(filename string) string {
	return s.URLPrefix + "/" + filename
}

// List returns stored images, newest first. A missing directory is empty.
func (s *Store) List() ([]Image, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Image{}, nil
	}
	if err != nil {
		return nil, err
	}
	images := []Image{}
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, Image{
			Filename: e.Name(),
			URL:      s.URL(e.Name()),
			Size:     info.Size(),
			ModTime:  info.ModTime().UTC(),
		})
	}
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].ModTime.Equal(images[j].ModTime) {
			return images[i].Filename > images[j].Filename
		}
		return images[i].ModTime.After(images[j].ModTime)
	})
	return images, nil
}

// Delete removes filename. Paths and hidden files are rejected.
func (s *Store) Delete(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return ErrInvalidFilename
	}
	err := os.Remove(filepath.Join(s.Dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
