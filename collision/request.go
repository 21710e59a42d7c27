package collision

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"go.viam.com/proximity/logging"
	"go.viam.com/proximity/spatialmath"
	"go.viam.com/proximity/utils"
)

const (
	defaultNumMaxContacts    = 1
	defaultNumMaxCostSources = 1
	defaultPrecision         = "float64"
)

// CollisionRequest configures a collision query.
type CollisionRequest struct {
	// NumMaxContacts is the number of contacts after which the query may stop.
	NumMaxContacts int `json:"num_max_contacts"`
	// EnableContact fills in the contact normal, point and depth.
	EnableContact bool `json:"enable_contact"`
	// NumMaxCostSources caps the number of cost sources kept.
	NumMaxCostSources int  `json:"num_max_cost_sources"`
	EnableCost        bool `json:"enable_cost"`
	EnableStatistics  bool `json:"enable_statistics"`
	// Precision is "float32" or "float64" and selects the tolerances of the narrow phase.
	Precision string `json:"precision"`

	Clock  clock.Clock    `json:"-"`
	Logger logging.Logger `json:"-"`
}

// NewCollisionRequest returns a request with default settings.
func NewCollisionRequest() *CollisionRequest {
	return &CollisionRequest{
		NumMaxContacts:    defaultNumMaxContacts,
		NumMaxCostSources: defaultNumMaxCostSources,
		Precision:         defaultPrecision,
	}
}

// NewCollisionRequestFromAttributes decodes the attributes over the defaults and validates them.
func NewCollisionRequestFromAttributes(attrs map[string]interface{}) (*CollisionRequest, error) {
	req := NewCollisionRequest()
	if err := utils.DecodeAttributes(attrs, req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate ensures all parts of the request are valid.
func (r *CollisionRequest) Validate() error {
	var err error
	if r.NumMaxContacts < 1 {
		err = multierr.Append(err, utils.NewOutOfRangeError("num_max_contacts", r.NumMaxContacts, ">= 1"))
	}
	if r.NumMaxCostSources < 0 {
		err = multierr.Append(err, utils.NewOutOfRangeError("num_max_cost_sources", r.NumMaxCostSources, ">= 0"))
	}
	if _, ok := precisions[r.Precision]; !ok {
		err = multierr.Append(err, utils.NewOutOfRangeError("precision", r.Precision, `"float32" or "float64"`))
	}
	return err
}

func (r *CollisionRequest) precision() spatialmath.Precision {
	if p, ok := precisions[r.Precision]; ok {
		return p
	}
	return spatialmath.Float64
}

// maxContacts is NumMaxContacts, at least one so that any hit is recorded.
func (r *CollisionRequest) maxContacts() int {
	return max(r.NumMaxContacts, 1)
}

var precisions = map[string]spatialmath.Precision{
	spatialmath.Float32.Name: spatialmath.Float32,
	spatialmath.Float64.Name: spatialmath.Float64,
}

// DistanceRequest configures a distance query.
type DistanceRequest struct {
	EnableNearestPoints bool `json:"enable_nearest_points"`
	// RelErr and AbsErr let the query stop once the best distance found is within these errors of
	// the true minimum.
	RelErr           float64 `json:"rel_err"`
	AbsErr           float64 `json:"abs_err"`
	EnableStatistics bool    `json:"enable_statistics"`

	Clock  clock.Clock    `json:"-"`
	Logger logging.Logger `json:"-"`
}

// NewDistanceRequest returns a request with default settings: exact distance, no nearest points.
func NewDistanceRequest() *DistanceRequest {
	return &DistanceRequest{}
}

// NewDistanceRequestFromAttributes decodes the attributes over the defaults and validates them.
func NewDistanceRequestFromAttributes(attrs map[string]interface{}) (*DistanceRequest, error) {
	req := NewDistanceRequest()
	if err := utils.DecodeAttributes(attrs, req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate ensures all parts of the request are valid.
func (r *DistanceRequest) Validate() error {
	var err error
	if r.RelErr < 0 {
		err = multierr.Append(err, utils.NewOutOfRangeError("rel_err", r.RelErr, ">= 0"))
	}
	if r.AbsErr < 0 {
		err = multierr.Append(err, utils.NewOutOfRangeError("abs_err", r.AbsErr, ">= 0"))
	}
	return err
}

func clockOrDefault(c clock.Clock) clock.Clock {
	if c == nil {
		return clock.New()
	}
	return c
}
