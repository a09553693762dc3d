package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/CurrenlyDying/lockworks/internal/isa"
)

// ConfigError is a topology config failure with CUE source position.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a CUE file and compiles it into a topology.
func Load(path string) (isa.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return isa.Topology{}, fmt.Errorf("read config: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return Compile(v)
}

// Compile parses a CUE value into a topology. Unset fields keep their
// defaults; set fields are validated after merging.
func Compile(v cue.Value) (isa.Topology, error) {
	topo := isa.DefaultTopology()
	if err := v.Err(); err != nil {
		return topo, formatCUEError(err)
	}

	floats := []struct {
		path string
		dst  *float64
	}{
		{"theta_robust", &topo.ThetaRobust},
		{"theta_edge", &topo.ThetaEdge},
		{"theta_fisher", &topo.ThetaFisher},
		{"theta_max_info", &topo.ThetaMaxInfo},
		{"theta_min", &topo.ThetaMin},
		{"theta_max", &topo.ThetaMax},
		{"pole_tolerance", &topo.PoleTolerance},
		{"dominance_threshold", &topo.DominanceThreshold},
		{"z_score_threshold", &topo.ZScoreThreshold},
		{"null_mean", &topo.NullMean},
		{"null_std", &topo.NullStd},
	}
	for _, f := range floats {
		if err := lookupFloat(v, f.path, f.dst); err != nil {
			return topo, err
		}
	}

	ints := []struct {
		path string
		dst  *int
	}{
		{"complexity", &topo.Complexity},
		{"max_cores", &topo.MaxCores},
		{"shots", &topo.Shots},
		{"calibration_width", &topo.CalibrationWidth},
	}
	for _, f := range ints {
		if err := lookupInt(v, f.path, f.dst); err != nil {
			return topo, err
		}
	}

	if err := validate(v, topo); err != nil {
		return topo, err
	}
	return topo, nil
}

func validate(v cue.Value, topo isa.Topology) error {
	fail := func(field, format string, args ...any) error {
		return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...), Pos: v.Pos()}
	}
	if topo.Complexity < topo.ComplexityMin {
		return fail("complexity", "complexity %d below minimum %d", topo.Complexity, topo.ComplexityMin)
	}
	if topo.MaxCores <= 0 {
		return fail("max_cores", "max_cores must be positive, got %d", topo.MaxCores)
	}
	if topo.Shots <= 0 {
		return fail("shots", "shots must be positive, got %d", topo.Shots)
	}
	if topo.ThetaMin >= topo.ThetaMax {
		return fail("theta_min", "theta_min %g not below theta_max %g", topo.ThetaMin, topo.ThetaMax)
	}
	if !topo.InSafeRange(topo.ThetaRobust) || !topo.InSafeRange(topo.ThetaFisher) {
		return fail("theta_robust", "logical poles must sit inside [%g, %g]", topo.ThetaMin, topo.ThetaMax)
	}
	if topo.PoleTolerance <= 0 {
		return fail("pole_tolerance", "pole_tolerance must be positive, got %g", topo.PoleTolerance)
	}
	if topo.DominanceThreshold <= 0 || topo.DominanceThreshold > 1 {
		return fail("dominance_threshold", "dominance_threshold %g out of (0, 1]", topo.DominanceThreshold)
	}
	return nil
}

func lookupFloat(v cue.Value, path string, dst *float64) error {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil
	}
	f, err := fv.Float64()
	if err != nil {
		return &ConfigError{Field: path, Message: "must be a number", Pos: fv.Pos()}
	}
	*dst = f
	return nil
}

func lookupInt(v cue.Value, path string, dst *int) error {
	iv := v.LookupPath(cue.ParsePath(path))
	if !iv.Exists() {
		return nil
	}
	i, err := iv.Int64()
	if err != nil {
		return &ConfigError{Field: path, Message: "must be an integer", Pos: iv.Pos()}
	}
	*dst = int(i)
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &ConfigError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}
