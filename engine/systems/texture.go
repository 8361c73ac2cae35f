package systems

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/resources"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

// TextureBackend turns decoded pixels into something the painter can draw.
// Implementations must be safe for concurrent use.
type TextureBackend interface {
	Create(name string, image *resources.ImageResourceData) (interface{}, error)
	Destroy(internal interface{})
}

// MemoryTextureBackend keeps the pixels in memory. Used when no window exists.
type MemoryTextureBackend struct{}

func (MemoryTextureBackend) Create(name string, image *resources.ImageResourceData) (interface{}, error) {
	return image, nil
}

func (MemoryTextureBackend) Destroy(internal interface{}) {}

/**
 * @brief Goroutine-safe registry of uploaded textures. Loaders register from
 * background goroutines, the stage releases from the render goroutine.
 */
type TextureSystem struct {
	Config *TextureSystemConfig

	mu       sync.Mutex
	ids      *core.IdentifierPool
	textures map[resources.TextureHandle]*resources.Texture
	backend  TextureBackend
}

func NewTextureSystem(config *TextureSystemConfig, backend TextureBackend) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	if backend == nil {
		backend = MemoryTextureBackend{}
	}
	return &TextureSystem{
		Config:   config,
		ids:      core.NewIdentifierPool(0),
		textures: make(map[resources.TextureHandle]*resources.Texture),
		backend:  backend,
	}, nil
}

// SetBackend swaps the uploader. Only call before any texture is registered.
func (ts *TextureSystem) SetBackend(backend TextureBackend) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.backend = backend
}

// Register uploads image under a fresh unique name.
func (ts *TextureSystem) Register(source string, image *resources.ImageResourceData) (resources.TextureHandle, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if uint32(len(ts.textures)) >= ts.Config.MaxTextureCount {
		return resources.InvalidTexture, fmt.Errorf("texture system is full (%d textures)", ts.Config.MaxTextureCount)
	}

	name := uuid.NewString()
	internal, err := ts.backend.Create(name, image)
	if err != nil {
		return resources.InvalidTexture, fmt.Errorf("create texture for %s: %w", source, err)
	}

	handle := resources.TextureHandle(ts.ids.AquireNewID(name))
	ts.textures[handle] = &resources.Texture{
		Handle:       handle,
		Name:         name,
		Source:       source,
		Width:        image.Width,
		Height:       image.Height,
		InternalData: internal,
	}
	core.LogDebug("texture %d registered for %s (%dx%d)", handle, source, image.Width, image.Height)
	return handle, nil
}

// Get returns the registry entry for handle.
func (ts *TextureSystem) Get(handle resources.TextureHandle) (*resources.Texture, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.textures[handle]
	return t, ok
}

// Release destroys the texture and frees its handle. Unknown handles are
// ignored with a warning.
func (ts *TextureSystem) Release(handle resources.TextureHandle) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.textures[handle]
	if !ok {
		core.LogWarn("texture release: unknown handle %d", handle)
		return
	}
	ts.backend.Destroy(t.InternalData)
	delete(ts.textures, handle)
	if err := ts.ids.ReleaseID(uint32(handle)); err != nil {
		core.LogWarn("texture release: %s", err)
	}
}

// Count returns the number of live textures.
func (ts *TextureSystem) Count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.textures)
}

func (ts *TextureSystem) Shutdown() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for handle, t := range ts.textures {
		ts.backend.Destroy(t.InternalData)
		delete(ts.textures, handle)
	}
	ts.ids = core.NewIdentifierPool(0)
	return nil
}
