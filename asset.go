package acorn

import (
	"image"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"go.trai.ch/zerr"
)

// AssetKey identifies an asset in a stage cache.
type AssetKey uint64

// KeyOf returns the AssetKey for an asset path.
func KeyOf(path string) AssetKey {
	return AssetKey(xxhash.Sum64String(path))
}

// TextureAsset is a decoded image held in a cache. Disposing it deallocates
// the GPU image.
type TextureAsset struct {
	Path  string
	Image *ebiten.Image
}

// Dispose implements Disposable.
func (t *TextureAsset) Dispose() {
	if t.Image != nil {
		t.Image.Deallocate()
		t.Image = nil
	}
}

// LoadTexture returns the texture for path from the group's cache, decoding
// it with load on a miss, and claims a reference to it through the group.
func LoadTexture(g *CachedGroup[AssetKey, any], path string, load func(path string) (image.Image, error)) (*TextureAsset, error) {
	key := KeyOf(path)
	c := g.Cache()
	if v, ok := c.Get(key); ok {
		tex, ok := v.(*TextureAsset)
		if !ok {
			return nil, annotate(ErrAssetType, "path", path)
		}
		if err := g.Add(key); err != nil {
			return nil, err
		}
		return tex, nil
	}

	img, err := load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load texture "+path)
	}
	tex := &TextureAsset{Path: path, Image: ebiten.NewImageFromImage(img)}
	c.Set(key, tex)
	if err := g.Add(key); err != nil {
		return nil, err
	}
	return tex, nil
}
