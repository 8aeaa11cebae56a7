package domain

// JobSpecification — полная спецификация задачи harmonic response.
//
// Строится один раз из case-файла (internal/casefile) до каких-либо
// сетевых вызовов и дальше не мутируется. Все физические параметры
// заданы явно: геометрия, материал, закрепления, нагрузка, частотный
// диапазон.
type JobSpecification struct {
	// Name — имя кейса (используется как имя проекта и симуляции).
	Name string `json:"name"`

	// Geometry — источник геометрии.
	Geometry GeometrySource `json:"geometry"`

	// Material — назначение материала.
	Material Material `json:"material"`

	// FixedSupports — наборы закреплённых граней.
	FixedSupports []FixedSupport `json:"fixed_supports"`

	// Load — гармоническая нагрузка.
	Load ForceLoad `json:"load"`

	// Solver — конфигурация решателя.
	Solver SolverConfig `json:"solver"`

	// Mesh — настройки сетки.
	Mesh MeshConfig `json:"mesh"`
}

// GeometrySource — ссылка на файл 3D-модели в обменном формате.
// Файл загружается на платформу как непрозрачный бинарный blob.
type GeometrySource struct {
	// Path — путь к локальному файлу.
	Path string `json:"path"`

	// Format — формат обмена: STEP, IGES, PARASOLID.
	Format string `json:"format"`

	// Unit — единица длины модели (m, mm).
	Unit string `json:"unit"`
}

// Material — линейно-упругий изотропный материал.
type Material struct {
	// Name — имя материала (например, "Steel").
	Name string `json:"name"`

	// YoungsModulus — модуль Юнга, Па.
	YoungsModulus float64 `json:"youngs_modulus"`

	// PoissonsRatio — коэффициент Пуассона.
	PoissonsRatio float64 `json:"poissons_ratio"`

	// Density — плотность, кг/м³.
	Density float64 `json:"density"`
}

// FixedSupport — закрепление (нулевое перемещение) на наборе граней.
type FixedSupport struct {
	// Name — имя граничного условия.
	Name string `json:"name"`

	// Faces — топологические ссылки на грани геометрии.
	Faces []string `json:"faces"`
}

// ForceLoad — гармоническая силовая нагрузка на набор граней.
type ForceLoad struct {
	// Name — имя нагрузки.
	Name string `json:"name"`

	// FX, FY, FZ — компоненты вектора силы, Н.
	FX float64 `json:"fx"`
	FY float64 `json:"fy"`
	FZ float64 `json:"fz"`

	// Faces — топологические ссылки на грани приложения.
	Faces []string `json:"faces"`
}

// SolverConfig — конфигурация гармонического анализа.
type SolverConfig struct {
	// AnalysisType — тип анализа. Всегда "HARMONIC".
	AnalysisType string `json:"analysis_type"`

	// StartFrequency — нижняя граница частотной развёртки, Гц.
	StartFrequency float64 `json:"start_frequency"`

	// EndFrequency — верхняя граница частотной развёртки, Гц.
	EndFrequency float64 `json:"end_frequency"`

	// Steps — число шагов развёртки.
	Steps int `json:"steps"`

	// Modes — число собственных форм для модального базиса.
	Modes int `json:"modes"`

	// MaxRunTimeSec — максимальное время решения на платформе, сек.
	MaxRunTimeSec float64 `json:"max_run_time_sec"`
}

// MeshConfig — настройки генерации сетки.
type MeshConfig struct {
	// Fineness — степень измельчения автоматической сетки (1..10).
	Fineness int `json:"fineness"`
}
