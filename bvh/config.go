package bvh

import (
	"go.uber.org/multierr"

	"go.viam.com/proximity/logging"
	"go.viam.com/proximity/utils"
)

const (
	defaultMaxLeafSize = 1
	defaultCostDensity = 1.
)

// BuildConfig controls how a Model is built.
type BuildConfig struct {
	// MaxLeafSize is the largest number of triangles a leaf may hold.
	MaxLeafSize int `json:"max_leaf_size"`
	// CostDensity scales the cost of the overlap regions the model takes part in.
	CostDensity float64 `json:"cost_density"`

	Logger logging.Logger `json:"-"`
}

// NewBuildConfig returns the default build configuration.
func NewBuildConfig() *BuildConfig {
	return &BuildConfig{
		MaxLeafSize: defaultMaxLeafSize,
		CostDensity: defaultCostDensity,
	}
}

// NewBuildConfigFromAttributes decodes the attributes over the defaults and validates the result.
func NewBuildConfigFromAttributes(attrs map[string]interface{}) (*BuildConfig, error) {
	cfg := NewBuildConfig()
	if err := utils.DecodeAttributes(attrs, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all parts of the config are valid.
func (c *BuildConfig) Validate() error {
	var err error
	if c.MaxLeafSize < 1 {
		err = multierr.Append(err, utils.NewOutOfRangeError("max_leaf_size", c.MaxLeafSize, ">= 1"))
	}
	if c.CostDensity < 0 {
		err = multierr.Append(err, utils.NewOutOfRangeError("cost_density", c.CostDensity, ">= 0"))
	}
	return err
}
