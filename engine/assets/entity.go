package assets

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/aefr/engine/assets/loaders"
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
)

// entityPaths derives the atlas and skeleton file names from a request path.
// A path without an extension names the atlas without ".atlas".
func entityPaths(path string) (atlasPath, skeletonPath string) {
	atlasPath = path
	ext := filepath.Ext(path)
	if ext == "" {
		atlasPath = path + ".atlas"
	}
	skeletonPath = strings.TrimSuffix(atlasPath, filepath.Ext(atlasPath)) + ".json"
	return atlasPath, skeletonPath
}

// LoadEntity reads the atlas, uploads its first page and parses the skeleton
// next to it. The page upload and the skeleton parse run concurrently. On
// failure nothing stays registered and the error is a *LoadError.
func (am *AssetManager) LoadEntity(ctx context.Context, path string) (*entity.Entity, []string, error) {
	ent, anims, _, err := am.loadEntity(ctx, path)
	return ent, anims, err
}

// loadEntity also returns every file the entity was built from.
func (am *AssetManager) loadEntity(ctx context.Context, path string) (*entity.Entity, []string, []string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, nil, loadError(path, StepResolve, errors.New("empty path"))
	}
	atlasPath, skeletonPath := entityPaths(am.Resolve(path))

	atlasRes, err := am.LoadAsset(atlasPath, resources.ResourceTypeAtlas, nil)
	if err != nil {
		return nil, nil, nil, loadError(path, StepAtlas, err)
	}
	atlas := atlasRes.Data.(*loaders.Atlas)
	files := entityFiles(atlasPath, skeletonPath, atlas)

	texture := resources.InvalidTexture
	var data *skeleton.Data

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return loadError(path, StepTexture, err)
		}
		pagePath := filepath.Join(filepath.Dir(atlasPath), atlas.Pages[0].Name)
		res, err := am.LoadAsset(pagePath, resources.ResourceTypeImage, nil)
		if err != nil {
			return loadError(path, StepTexture, err)
		}
		img := res.Data.(*resources.ImageResourceData)
		img.Premultiplied = atlas.Pages[0].PremultipliedAlpha
		handle, err := am.textures.Register(pagePath, img)
		if err != nil {
			return loadError(path, StepTexture, err)
		}
		texture = handle
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return loadError(path, StepSkeleton, err)
		}
		res, err := am.LoadAsset(skeletonPath, resources.ResourceTypeSkeleton, atlas)
		if err != nil {
			return loadError(path, StepSkeleton, err)
		}
		data = res.Data.(*skeleton.Data)
		return nil
	})

	if err := g.Wait(); err != nil {
		if texture.Valid() {
			am.textures.Release(texture)
		}
		return nil, nil, nil, err
	}

	ent := entity.New(data, texture)
	return ent, ent.AnimationNames(), files, nil
}

func entityFiles(atlasPath, skeletonPath string, atlas *loaders.Atlas) []string {
	files := []string{atlasPath, skeletonPath}
	for _, p := range atlas.Pages {
		files = append(files, filepath.Join(filepath.Dir(atlasPath), p.Name))
	}
	return files
}

// LoadBackground decodes an image and registers it as a texture.
func (am *AssetManager) LoadBackground(path string) (resources.TextureHandle, error) {
	full := am.Resolve(path)
	res, err := am.LoadAsset(full, resources.ResourceTypeImage, nil)
	if err != nil {
		return resources.InvalidTexture, loadError(path, StepTexture, err)
	}
	handle, err := am.textures.Register(full, res.Data.(*resources.ImageResourceData))
	if err != nil {
		return resources.InvalidTexture, loadError(path, StepTexture, err)
	}
	return handle, nil
}

// ReadAudio returns the raw bytes of an audio file.
func (am *AssetManager) ReadAudio(path string) ([]byte, error) {
	res, err := am.LoadAsset(am.Resolve(path), resources.ResourceTypeBinary, nil)
	if err != nil {
		return nil, loadError(path, StepRead, err)
	}
	return res.Data.([]byte), nil
}
