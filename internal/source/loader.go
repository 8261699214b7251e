package source

import (
	"fmt"
	"image"
	"sync"
)

// Loader renders pages on demand and caches them, so a script showing the
// same page twice decodes it once.
type Loader struct {
	DPI int

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewLoader(dpi int) *Loader {
	if dpi <= 0 {
		dpi = 150
	}
	return &Loader{DPI: dpi, cache: make(map[string]image.Image)}
}

// Load returns page (0-based) of path.
func (l *Loader) Load(path string, page int) (image.Image, error) {
	key := fmt.Sprintf("%s#%d", path, page)
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[key]; ok {
		return img, nil
	}

	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	img, err := src.RenderPage(page, l.DPI)
	if err != nil {
		return nil, fmt.Errorf("render %s page %d: %w", path, page+1, err)
	}
	l.cache[key] = img
	return img, nil
}
