package quantize

import (
	"errors"

	"github.com/katalvlaran/quadquant/flownet"
)

var (
	// ErrBackendUnavailable reports a backend that is not built into this
	// binary. Choose the flow or ilp solver instead.
	ErrBackendUnavailable = errors.New("quantize: backend unavailable, choose \"flow\" or \"ilp\"")
	// ErrUnknownBackend reports a solver name without a registered backend.
	ErrUnknownBackend = errors.New("quantize: unknown backend")
	// ErrNoFallback reports a failed attempt whose parameters admit no
	// further relaxation.
	ErrNoFallback = errors.New("quantize: no fallback left")
	// ErrInvalidQuantization reports a result that violates the side
	// minimum or boundary parity of a chart.
	ErrInvalidQuantization = flownet.ErrInvalidQuantization
	// ErrUnsupportedValence reports a used chart outside valence 3..6.
	ErrUnsupportedValence = flownet.ErrUnsupportedValence
	// ErrNilTopology reports a missing topology.
	ErrNilTopology = errors.New("quantize: nil topology")
)
