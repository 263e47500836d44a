package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixSession = "sess"
	PrefixAsset   = "asset"
	PrefixExport  = "exp"
)

// New returns a time-ordered id such as "rect_01h455vb4pex5vsknk084sn02q".
// Ids are never reused: the suffix is a UUIDv7.
func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

// NewObjectID prefixes object ids with their shape type.
func NewObjectID(shapeType string) string { return New(shapeType) }

func NewSessionID() string { return New(PrefixSession) }
func NewAssetID() string   { return New(PrefixAsset) }
func NewExportID() string  { return New(PrefixExport) }

// Prefix returns the type prefix of id.
func Prefix(id string) (string, error) {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	return parsed.Prefix(), nil
}

func Validate(id, expectedPrefix string) error {
	prefix, err := Prefix(id)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, prefix, id)
	}
	return nil
}
