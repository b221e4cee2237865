package offline

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/claude/pplog/internal/models"
)

// Origin is the live source of assets during install.
type Origin interface {
	Fetch(ctx context.Context, p string) (models.Asset, error)
}

// FSOrigin serves assets from a filesystem, mapping directory paths to
// their index.html.
type FSOrigin struct {
	FS fs.FS
}

func (o FSOrigin) Fetch(_ context.Context, p string) (models.Asset, error) {
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || strings.HasSuffix(p, "/") {
		name = path.Join(name, "index.html")
	}
	body, err := fs.ReadFile(o.FS, name)
	if err != nil {
		return models.Asset{}, fmt.Errorf("fetching %s: %w", p, err)
	}
	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(body)
	}
	return models.Asset{Path: p, ContentType: ctype, Body: body}, nil
}
