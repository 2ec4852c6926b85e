package prover

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/suffix-labs/ztron-shield/pkg/ffi"
)

// Default locations of the Groth16 circuit parameters. The files are the
// standard Sapling MPC outputs; they are large (tens of MB) and immutable,
// which is why they live on disk and are loaded once per process.
const (
	DefaultSpendParamsPath  = "ztron-params/sapling-spend.params"
	DefaultOutputParamsPath = "ztron-params/sapling-output.params"
)

// ErrParametersNotLoaded is returned by NewLocal before LoadParameters has
// succeeded.
var ErrParametersNotLoaded = errors.New("prover: proving parameters not loaded")

var (
	paramsOnce   sync.Once
	paramsErr    error
	paramsLoaded bool
)

// LoadParameters initializes the process-wide proving parameters. The load
// happens exactly once per process no matter how many callers race here;
// later calls return the first outcome. There is no teardown: the
// parameters are read-only and live until process exit.
func LoadParameters(spendPath, outputPath string, log zerolog.Logger) error {
	paramsOnce.Do(func() {
		log.Info().
			Str("spend", spendPath).
			Str("output", outputPath).
			Msg("loading sapling proving parameters")
		start := time.Now()

		paramsErr = ffi.InitParams(spendPath, outputPath)
		if paramsErr != nil {
			log.Error().Err(paramsErr).Msg("proving parameter load failed")
			return
		}
		paramsLoaded = true
		log.Info().
			Dur("elapsed", time.Since(start)).
			Msg("proving parameters ready")
	})
	return paramsErr
}

// ParametersLoaded reports whether LoadParameters has succeeded.
func ParametersLoaded() bool {
	return paramsLoaded
}
