package systems

type SystemManagerConfig struct {
	ReservedCores   int
	MaxTextureCount uint32
	Audio           AudioSystemConfig
}

// SystemManager owns the long-lived systems and hands them to the stage.
type SystemManager struct {
	JobSystem     *JobSystem
	TextureSystem *TextureSystem
	AudioSystem   *AudioSystem
}

// NewSystemManager builds the compute pool and registries. The texture and
// audio backends come from the host; nil backends mean headless operation.
func NewSystemManager(config SystemManagerConfig, textures TextureBackend, audio AudioBackend) (*SystemManager, error) {
	js, err := NewComputePool(config.ReservedCores)
	if err != nil {
		return nil, err
	}
	if config.MaxTextureCount == 0 {
		config.MaxTextureCount = 1024
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, textures)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		JobSystem:     js,
		TextureSystem: ts,
		AudioSystem:   NewAudioSystem(config.Audio, audio),
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.AudioSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
