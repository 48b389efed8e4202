// Package manifest reads and writes atlas manifest files.
//
// A manifest is a small JSON document holding the persistent part of an
// atlas: the sprite folder (relative to the manifest's own directory) and
// the tile size. Pixel data is never stored in it.
//
//	{
//	  "SpriteFolder": "sprites/blocks",
//	  "SpriteSize": 32
//	}
//
// Older manifests also embedded a "Sprites" list. It is accepted on load
// and dropped; it is never written.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// DefaultTileSize is used for manifests that do not specify one.
const DefaultTileSize = 32

// MaxTileSize is the largest tile size a manifest may carry.
const MaxTileSize = 1 << 14

// Manifest is the persisted description of an atlas.
type Manifest struct {
	SpriteFolder string
	TileSize     int
}

// document mirrors the on-disk layout. Field names are fixed by manifests
// already in the wild.
type document struct {
	SpriteFolder string          `json:"SpriteFolder"`
	SpriteSize   json.RawMessage `json:"SpriteSize,omitempty"`
	Sprites      json.RawMessage `json:"Sprites,omitempty"`
}

type savedDocument struct {
	SpriteFolder string `json:"SpriteFolder"`
	SpriteSize   int    `json:"SpriteSize"`
}

// ParseError reports a manifest that could not be decoded.
type ParseError struct {
	// Path is set when the manifest was read from a file.
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("manifest: parsing %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("manifest: parsing: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err, or anything it wraps, is a *ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// Save encodes m as an indented JSON document.
func Save(m Manifest) ([]byte, error) {
	b, err := json.MarshalIndent(savedDocument{
		SpriteFolder: m.SpriteFolder,
		SpriteSize:   m.TileSize,
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	return append(b, '\n'), nil
}

// Load decodes a manifest. Unknown fields are ignored. A missing tile size
// means DefaultTileSize; a tile size that is not an integer between 1 and
// MaxTileSize is a *ParseError, as is anything that is not a JSON object.
func Load(b []byte) (Manifest, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Manifest{}, &ParseError{Err: errors.New("not a JSON object")}
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Manifest{}, &ParseError{Err: err}
	}

	m := Manifest{
		SpriteFolder: doc.SpriteFolder,
		TileSize:     DefaultTileSize,
	}
	if len(doc.SpriteSize) > 0 && string(doc.SpriteSize) != "null" {
		if err := json.Unmarshal(doc.SpriteSize, &m.TileSize); err != nil {
			return Manifest{}, &ParseError{Err: errors.Wrap(err, "SpriteSize")}
		}
		if m.TileSize <= 0 {
			return Manifest{}, &ParseError{Err: errors.Errorf("SpriteSize %d is not positive", m.TileSize)}
		}
		if m.TileSize > MaxTileSize {
			return Manifest{}, &ParseError{Err: errors.Errorf("SpriteSize %d exceeds %d", m.TileSize, MaxTileSize)}
		}
	}

	return m, nil
}

// ReadFile reads and decodes the manifest at path. When the file cannot be
// read, errors.Cause of the returned error is the underlying *os.PathError.
func ReadFile(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.Wrap(err, "reading manifest")
	}
	m, err := Load(b)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return Manifest{}, err
	}
	return m, nil
}

// WriteFile encodes m and writes it to path.
func WriteFile(path string, m Manifest) error {
	b, err := Save(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	return nil
}
