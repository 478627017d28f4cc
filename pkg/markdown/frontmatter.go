package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// StripFrontMatter splits a leading YAML, TOML, or JSON front matter block
// from source. Sources without front matter return a nil map and the
// original bytes.
func StripFrontMatter(source []byte) (map[string]any, []byte, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(meta) == 0 {
		meta = nil
	}
	return meta, body, nil
}
