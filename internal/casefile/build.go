package casefile

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/shaiso/Resonance/internal/domain"
)

var validate = validator.New()

// Build строит JobSpecification из кейса.
//
// Чистая функция: никаких сетевых эффектов, одинаковый кейс даёт
// побитово идентичную спецификацию. Невалидный кейс — ConfigurationError.
func Build(c *Case) (*domain.JobSpecification, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	geometry := domain.GeometrySource{
		Path:   c.Geometry.Path,
		Format: c.Geometry.Format,
		Unit:   c.Geometry.Unit,
	}
	if geometry.Format == "" {
		geometry.Format = defaultFormat
	}
	if geometry.Unit == "" {
		geometry.Unit = defaultUnit
	}

	supports := make([]domain.FixedSupport, 0, len(c.Supports))
	for _, s := range c.Supports {
		supports = append(supports, domain.FixedSupport{
			Name:  s.Name,
			Faces: append([]string(nil), s.Faces...),
		})
	}

	fineness := defaultFineness
	if c.Mesh != nil {
		fineness = c.Mesh.Fineness
	}

	modes := c.Modes
	if modes == 0 {
		modes = defaultModes
	}

	maxRunTime := c.MaxRunTime
	if maxRunTime == 0 {
		maxRunTime = defaultMaxRunTime
	}

	return &domain.JobSpecification{
		Name:          c.Name,
		Geometry:      geometry,
		Material:      domain.Material(c.Material),
		FixedSupports: supports,
		Load: domain.ForceLoad{
			Name:  c.Load.Name,
			FX:    c.Load.FX,
			FY:    c.Load.FY,
			FZ:    c.Load.FZ,
			Faces: append([]string(nil), c.Load.Faces...),
		},
		Solver: domain.SolverConfig{
			AnalysisType:   "HARMONIC",
			StartFrequency: c.Sweep.StartHz,
			EndFrequency:   c.Sweep.EndHz,
			Steps:          c.Sweep.Steps,
			Modes:          modes,
			MaxRunTimeSec:  maxRunTime,
		},
		Mesh: domain.MeshConfig{Fineness: fineness},
	}, nil
}

// Validate проверяет кейс: теги полей плюс межполевые инварианты.
func Validate(c *Case) error {
	if c == nil {
		return NewFieldError("case", "case block is missing")
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return NewFieldError(fe.Namespace(), fmt.Sprintf("failed %q constraint", fe.Tag()))
		}
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	// Межполевые проверки, которые не выражаются тегами.
	if c.Sweep.EndHz <= c.Sweep.StartHz {
		return NewFieldError("sweep.end_hz",
			fmt.Sprintf("upper bound %g Hz must exceed lower bound %g Hz", c.Sweep.EndHz, c.Sweep.StartHz))
	}

	if c.Load.FX == 0 && c.Load.FY == 0 && c.Load.FZ == 0 {
		return NewFieldError("force_load", "force vector is zero")
	}

	return nil
}
