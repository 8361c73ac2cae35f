package assets

import "github.com/spaghettifunk/aefr/engine/resources"

type Loader interface {
	Load(path string, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take various parameters
	Unload(*resources.Resource) error
}
