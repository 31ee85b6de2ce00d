// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import "errors"

// LineSearchOptions configures the Armijo backtracking line search (§4.5).
type LineSearchOptions struct {
	// InitialAlpha is the first step length tried (default 1).
	InitialAlpha float64
	// Contraction is the backtracking factor c_r ∈ (0,1) (default 0.5).
	Contraction float64
	// ArmijoC1 is the sufficient-decrease constant c1 ∈ (0,0.5) (default 1e-4).
	ArmijoC1 float64
	// AlphaMin is the smallest step length tried before giving up (default 1e-12).
	AlphaMin float64
}

func (o *LineSearchOptions) fillDefaults() {
	if o.InitialAlpha == 0 {
		o.InitialAlpha = 1
	}
	if o.Contraction == 0 {
		o.Contraction = 0.5
	}
	if o.ArmijoC1 == 0 {
		o.ArmijoC1 = 1e-4
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = 1e-12
	}
}

// ErrAscentDirection is returned when the directional derivative at α=0 is
// non-negative: the candidate step is not a descent direction for φ.
var ErrAscentDirection = errors.New("proxal: line search direction is not descent")

// armijoLineSearch performs backtracking on phi starting from opts's
// InitialAlpha: while φ(α) > φ0 + c1·α·φ'(0) and α > α_min, contract α by
// Contraction. It returns the last α evaluated and φ(α). If φ'(0) ≥ 0 the
// search falls back immediately to α_min and returns ErrAscentDirection
// alongside φ(α_min).
func armijoLineSearch(phi func(alpha float64) float64, phi0, dphi0 float64, opts LineSearchOptions) (alpha, value float64, err error) {
	opts.fillDefaults()

	if dphi0 >= 0 {
		alpha = opts.AlphaMin
		return alpha, phi(alpha), ErrAscentDirection
	}

	alpha = opts.InitialAlpha
	value = phi(alpha)
	for value > phi0+opts.ArmijoC1*alpha*dphi0 && alpha > opts.AlphaMin {
		alpha *= opts.Contraction
		value = phi(alpha)
	}
	return alpha, value, nil
}
