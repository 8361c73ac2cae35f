package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
)

// SkeletonLoader reads Spine JSON. The params value, when set, must be a
// skeleton.RegionResolver (usually the *Atlas loaded next to the skeleton).
type SkeletonLoader struct{}

func (sl *SkeletonLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var regions skeleton.RegionResolver
	if params != nil {
		r, ok := params.(skeleton.RegionResolver)
		if !ok {
			return nil, fmt.Errorf("failed to cast params in skeleton loader")
		}
		regions = r
	}

	data, err := skeleton.ParseJSON(raw, regions)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(raw)),
		Data:     data,
	}, nil
}

func (sl *SkeletonLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}
