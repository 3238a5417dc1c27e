// Package asset stores uploaded product images.
package asset

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Storage persists an asset under a relative name.
type Storage interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Discard accepts every asset and keeps nothing. Hosting shapes without a
// writable disk use it; the image is expected to be stored elsewhere.
type Discard struct{}

func (Discard) Put(context.Context, string, []byte) error { return nil }

// Dir writes assets below Root.
type Dir struct {
	Root string
}

func (d Dir) Put(_ context.Context, name string, data []byte) error {
	target := filepath.Join(d.Root, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(d.Root)+string(os.PathSeparator)) {
		return fmt.Errorf("asset name %q escapes storage root", name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

var (
	dataURI  = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)
	nonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
	accented = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
		"é", "e", "ê", "e", "è", "e",
		"í", "i", "î", "i",
		"ó", "o", "ô", "o", "õ", "o", "ö", "o",
		"ú", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
)

var ErrInvalidImage = errors.New("image is not valid base64")

// Image is a decoded upload.
type Image struct {
	Name string
	Ext  string
	Data []byte
}

// Decode parses a plain or data-URI base64 image and names it after the
// product. A random name is used when there is no product id.
func Decode(base64Image, productID, productName string) (Image, error) {
	ext := "jpg"
	payload := strings.TrimSpace(base64Image)
	if m := dataURI.FindStringSubmatch(payload); m != nil {
		ext = strings.ToLower(m[1])
		if ext == "jpeg" {
			ext = "jpg"
		}
		if ext == "svg+xml" {
			ext = "svg"
		}
		payload = payload[len(m[0]):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrInvalidImage
	}

	base := Slug(productName)
	id := Slug(productID)
	switch {
	case id == "":
		id = uuid.NewString()
	case base == "":
		base = "product"
	}
	name := id
	if base != "" {
		name = base + "-" + id
	}

	return Image{Name: name + "." + ext, Ext: ext, Data: data}, nil
}

// PublicPath joins the public prefix and the asset name.
func PublicPath(prefix, name string) string {
	return path.Join("/", prefix, name)
}

// Slug lowercases s and keeps ascii letters and digits joined by dashes.
func Slug(s string) string {
	s = accented.Replace(strings.ToLower(strings.TrimSpace(s)))
	return strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
}
