package atlaspack

import (
	"crypto/sha1"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies an asset by its file extension.
type Kind int

const (
	// KindOther is any asset the packer ignores.
	KindOther Kind = iota
	// KindImage is a decodable image asset.
	KindImage
)

// Asset is one source file handed to the packer.
type Asset struct {
	Path string
	Data []byte
	Hash string
	Kind Kind
}

// NewAsset returns an Asset for the file contents, computing its content
// hash and media kind.
func NewAsset(path string, data []byte) Asset {
	return Asset{
		Path: path,
		Data: data,
		Hash: hashBytes(data),
		Kind: kindOf(path),
	}
}

// Stem returns the file name without its directory or extension. Sprite
// and animation names derive from it.
func (a Asset) Stem() string {
	base := filepath.Base(a.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func hashBytes(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}

func kindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif", ".jpg", ".jpeg", ".webp", ".bmp":
		return KindImage
	}
	return KindOther
}
