package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spaghettifunk/aefr/engine/assets/loaders"
	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/systems"
)

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

type AssetManagerConfig struct {
	// Relative request paths resolve against Root.
	Root string
	// Reload a slot when any of its files change on disk.
	HotReload bool
}

/**
 * @brief Loads characters, backgrounds and audio off the render goroutine and
 * reports results on the command bus.
 */
type AssetManager struct {
	Config  AssetManagerConfig
	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	textures *systems.TextureSystem
	sender   *bus.Sender
	metrics  *core.Metrics

	watcher *Watcher
	pending sync.WaitGroup
}

func NewAssetManager(config AssetManagerConfig, textures *systems.TextureSystem, sender *bus.Sender, metrics *core.Metrics) *AssetManager {
	am := &AssetManager{
		Config:   config,
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[resources.ResourceType]Loader),
		textures: textures,
		sender:   sender,
		metrics:  metrics,
	}

	// Register loaders
	am.registerLoader(resources.ResourceTypeAtlas, &loaders.AtlasLoader{})
	am.registerLoader(resources.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(resources.ResourceTypeSkeleton, &loaders.SkeletonLoader{})
	am.registerLoader(resources.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(resources.ResourceTypeSystemFont, &loaders.SystemFontLoader{})
	am.registerLoader(resources.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})

	return am
}

// Initialize starts the hot-reload watcher when enabled.
func (am *AssetManager) Initialize() error {
	if !am.Config.HotReload {
		return nil
	}
	w, err := NewWatcher(am.sender)
	if err != nil {
		return err
	}
	am.watcher = w
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Resolve maps a request path onto the asset root.
func (am *AssetManager) Resolve(path string) string {
	if filepath.IsAbs(path) || am.Config.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(am.Config.Root, path)
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, resourceType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       resourceType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()
	return res, nil
}

func (am *AssetManager) UnloadAsset(res *resources.Resource, resourceType resources.ResourceType) error {
	loader, ok := am.loaders[resourceType]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}
	am.mutex.Lock()
	delete(am.assets, res.FullPath)
	am.mutex.Unlock()
	return loader.Unload(res)
}

// Loaded returns what is known about a previously loaded path.
func (am *AssetManager) Loaded(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[path]
	return info, ok
}

// Track registers the files of a slot with the hot-reload watcher. files
// come from LoadSuccess; nothing is read from disk here.
func (am *AssetManager) Track(slot int, requestPath string, files []string) {
	if am.watcher == nil || len(files) == 0 {
		return
	}
	if err := am.watcher.Track(slot, requestPath, files); err != nil {
		core.LogWarn("hot reload for slot %d disabled: %s", slot, err)
	}
}

// Untrack stops watching a slot.
func (am *AssetManager) Untrack(slot int) {
	if am.watcher != nil {
		am.watcher.Untrack(slot)
	}
}

// Wait blocks until every request started so far has reported back.
func (am *AssetManager) Wait() {
	am.pending.Wait()
}

func (am *AssetManager) Shutdown() error {
	if am.watcher != nil {
		return am.watcher.Close()
	}
	return nil
}

func (am *AssetManager) countLoad(resource, result string) {
	if am.metrics != nil {
		am.metrics.Loads.WithLabelValues(resource, result).Inc()
	}
}

func determineAssetType(path string) resources.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".atlas":
		return resources.ResourceTypeAtlas
	case ".json":
		return resources.ResourceTypeSkeleton
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return resources.ResourceTypeImage
	case ".wav", ".ogg", ".mp3":
		return resources.ResourceTypeBinary
	case ".ttf", ".otf", ".ttc":
		return resources.ResourceTypeSystemFont
	case ".fnt":
		return resources.ResourceTypeBitmapFont
	case ".txt":
		return resources.ResourceTypeText
	default:
		return resources.ResourceTypeNone
	}
}
