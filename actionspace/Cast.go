package actionspace

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// Cast converts actions to a target element type
type Cast struct {
	advertised spec.Spec
	dtype      tensor.Dtype
	nan        spec.NaNPolicy
}

// NewCast returns an ActionSpace that casts actions to dtype before
// forwarding them. The advertised spec is s with its dtype replaced by
// the target dtype. Casting to an integer dtype fails at projection
// time for actions containing NaN, so construction with an integer
// dtype logs a warning.
func NewCast(s spec.Spec, dtype tensor.Dtype, nan spec.NaNPolicy,
	log zerolog.Logger) (*Cast, error) {
	if s == nil {
		return nil, fmt.Errorf("newCast: no spec")
	}

	advertised, err := replaceDtype(s, dtype)
	if err != nil {
		return nil, fmt.Errorf("newCast: %w", err)
	}
	if spec.IsInteger(dtype) {
		log.Warn().
			Str("spec", s.Name()).
			Str("dtype", dtype.String()).
			Msg("cast: casting to an integer dtype will fail for NaN actions")
	}

	return &Cast{advertised: advertised, dtype: dtype, nan: nan}, nil
}

// Name returns the name of the action space
func (c *Cast) Name() string {
	return "cast"
}

// Spec describes the actions the space accepts
func (c *Cast) Spec() spec.Spec {
	return c.advertised
}

// Project casts action to the target dtype and validates the result
// against the advertised spec
func (c *Cast) Project(action *tensor.Dense) (*tensor.Dense, error) {
	cast, err := spec.Cast(action, c.dtype)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if err := spec.Validate(c.advertised, cast, c.nan); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return cast, nil
}

func replaceDtype(s spec.Spec, dtype tensor.Dtype) (spec.Spec, error) {
	switch base := s.(type) {
	case *spec.Bounded:
		return spec.NewBounded(base.Shape(), dtype, base.Minimum(),
			base.Maximum(), base.Name())
	case *spec.Discrete:
		return spec.NewDiscrete(base.NumValues(), dtype, base.Name())
	default:
		return spec.NewArray(s.Shape(), dtype, s.Name())
	}
}
