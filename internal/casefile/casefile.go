package casefile

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Значения по умолчанию для необязательных полей кейса.
const (
	defaultFormat     = "STEP"
	defaultUnit       = "m"
	defaultFineness   = 5
	defaultModes      = 10
	defaultMaxRunTime = 18000.0
)

// File — корень case-файла. Один файл описывает ровно один кейс.
type File struct {
	Case Case `hcl:"case,block"`
}

// Case — декларативное описание harmonic response кейса.
//
// Пример:
//
//	case "bracket" {
//	  geometry {
//	    path = "fixtures/bracket-1.step"
//	  }
//
//	  material "Steel" {
//	    youngs_modulus = 2.0e11
//	    poissons_ratio = 0.3
//	    density        = 7850
//	  }
//
//	  fixed_support "mounting holes" {
//	    faces = ["B1_TE42", "B1_TE70", "B1_TE98", "B1_TE378"]
//	  }
//
//	  force_load "tip load" {
//	    fz    = -1000
//	    faces = ["B1_TE150", "B1_TE153"]
//	  }
//
//	  sweep {
//	    start_hz = 10
//	    end_hz   = 1000
//	    steps    = 50
//	  }
//	}
type Case struct {
	// Name — имя кейса (label блока case).
	Name string `hcl:"name,label" validate:"required"`

	// Geometry — источник геометрии.
	Geometry GeometryBlock `hcl:"geometry,block"`

	// Material — материал тела.
	Material MaterialBlock `hcl:"material,block"`

	// Supports — закрепления. Минимум одно.
	Supports []SupportBlock `hcl:"fixed_support,block" validate:"min=1,dive"`

	// Load — гармоническая нагрузка.
	Load LoadBlock `hcl:"force_load,block"`

	// Sweep — частотная развёртка.
	Sweep SweepBlock `hcl:"sweep,block"`

	// Mesh — настройки сетки. Необязательно, по умолчанию fineness=5.
	Mesh *MeshBlock `hcl:"mesh,block"`

	// Modes — число собственных форм модального базиса. По умолчанию 10.
	Modes int `hcl:"modes,optional" validate:"gte=0"`

	// MaxRunTime — лимит времени решения на платформе, сек. По умолчанию 18000.
	MaxRunTime float64 `hcl:"max_run_time,optional" validate:"gte=0"`
}

// GeometryBlock — файл 3D-модели в обменном формате.
type GeometryBlock struct {
	Path   string `hcl:"path" validate:"required"`
	Format string `hcl:"format,optional" validate:"omitempty,oneof=STEP IGES PARASOLID"`
	Unit   string `hcl:"unit,optional" validate:"omitempty,oneof=m mm"`
}

// MaterialBlock — линейно-упругий изотропный материал.
type MaterialBlock struct {
	Name          string  `hcl:"name,label" validate:"required"`
	YoungsModulus float64 `hcl:"youngs_modulus" validate:"gt=0"`
	PoissonsRatio float64 `hcl:"poissons_ratio" validate:"gt=0,lt=0.5"`
	Density       float64 `hcl:"density" validate:"gt=0"`
}

// SupportBlock — закрепление на наборе граней.
type SupportBlock struct {
	Name  string   `hcl:"name,label" validate:"required"`
	Faces []string `hcl:"faces" validate:"min=1"`
}

// LoadBlock — силовая нагрузка на набор граней.
type LoadBlock struct {
	Name  string   `hcl:"name,label" validate:"required"`
	FX    float64  `hcl:"fx,optional"`
	FY    float64  `hcl:"fy,optional"`
	FZ    float64  `hcl:"fz,optional"`
	Faces []string `hcl:"faces" validate:"min=1"`
}

// SweepBlock — границы и шаг частотной развёртки.
type SweepBlock struct {
	StartHz float64 `hcl:"start_hz" validate:"gt=0"`
	EndHz   float64 `hcl:"end_hz" validate:"gt=0"`
	Steps   int     `hcl:"steps" validate:"gt=0"`
}

// MeshBlock — настройки автоматической сетки.
type MeshBlock struct {
	Fineness int `hcl:"fineness" validate:"gte=1,lte=10"`
}

// Load читает и парсит case-файл.
// Синтаксические ошибки HCL и отсутствие обязательных блоков —
// ConfigurationError (до каких-либо сетевых вызовов).
func Load(path string) (*Case, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read case file: %v", ErrConfiguration, err)
	}
	return Parse(path, src)
}

// Parse парсит case-файл из байтов. filename нужен только для диагностики.
func Parse(filename string, src []byte) (*Case, error) {
	var f File
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &f.Case, nil
}
