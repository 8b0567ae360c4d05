package io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	gterrors "github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/httputil"
)

// IsURL reports whether input names a remote puzzle rather than a file.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// FetchJSON downloads a puzzle definition with client and decodes it like
// [ReadJSON]. If the document has no "id", the last path segment of the
// URL without its extension is used.
func FetchJSON(ctx context.Context, client *httputil.Client, rawURL string, refresh bool) (grid.Puzzle, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return grid.Puzzle{}, gterrors.Wrap(gterrors.ErrCodeInvalidInput, err, "invalid puzzle url %q", rawURL)
	}

	body, err := client.Fetch(ctx, rawURL, refresh)
	if err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return grid.Puzzle{}, gterrors.Wrap(gterrors.ErrCodeNotFound, err, "fetch %s", rawURL)
		}
		return grid.Puzzle{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	p, err := ReadJSON(bytes.NewReader(body))
	if err != nil {
		return grid.Puzzle{}, fmt.Errorf("%s: %w", rawURL, err)
	}
	if p.ID == "" {
		base := path.Base(u.Path)
		p.ID = strings.TrimSuffix(base, path.Ext(base))
	}
	return p, nil
}
