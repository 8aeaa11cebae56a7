package simapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shaiso/Resonance/internal/domain"
	"github.com/shaiso/Resonance/internal/telemetry"
)

const defaultHTTPTimeout = 60 * time.Second

// Client — HTTP-клиент REST API платформы.
//
// Ключ API валидируется лениво: пустой ключ обнаруживается при первом
// запросе (ErrAuth), а не при создании клиента.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient создаёт клиент платформы.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
	}
}

// --- Projects ---

// CreateProject создаёт проект и возвращает его ID.
func (c *Client) CreateProject(ctx context.Context, name, description string) (string, error) {
	req := Project{
		Name:              name,
		Description:       description,
		MeasurementSystem: "SI",
	}
	var project Project
	if err := c.post(ctx, "create_project", "/projects", req, &project); err != nil {
		return "", err
	}
	return project.ProjectID, nil
}

// --- Storage / Geometry ---

// CreateStorage выделяет временное хранилище для загрузки blob.
func (c *Client) CreateStorage(ctx context.Context) (*Storage, error) {
	var storage Storage
	if err := c.post(ctx, "create_storage", "/storage", nil, &storage); err != nil {
		return nil, err
	}
	return &storage, nil
}

// UploadBlob загружает геометрию как непрозрачный бинарный blob
// по выданному хранилищем URL.
func (c *Client) UploadBlob(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: create upload request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.APIRequests.WithLabelValues("upload_blob", "error").Inc()
		return fmt.Errorf("%w: upload blob: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		telemetry.APIRequests.WithLabelValues("upload_blob", "error").Inc()
		return fmt.Errorf("%w: upload blob: HTTP %d", ErrTransport, resp.StatusCode)
	}

	telemetry.APIRequests.WithLabelValues("upload_blob", "ok").Inc()
	return nil
}

// ImportGeometry запускает импорт загруженной геометрии.
func (c *Client) ImportGeometry(ctx context.Context, projectID string, req GeometryImportRequest) (*GeometryImport, error) {
	var imp GeometryImport
	path := "/projects/" + projectID + "/geometryimports"
	if err := c.post(ctx, "import_geometry", path, req, &imp); err != nil {
		return nil, err
	}
	return &imp, nil
}

// GetGeometryImport возвращает состояние операции импорта.
func (c *Client) GetGeometryImport(ctx context.Context, projectID, importID string) (*GeometryImport, error) {
	var imp GeometryImport
	path := "/projects/" + projectID + "/geometryimports/" + importID
	if err := c.get(ctx, "get_geometry_import", path, &imp); err != nil {
		return nil, err
	}
	return &imp, nil
}

// ListGeometryRegions возвращает имена тел импортированной геометрии.
func (c *Client) ListGeometryRegions(ctx context.Context, projectID, geometryID string) ([]string, error) {
	var regions struct {
		Embedded []GeometryRegion `json:"embedded"`
	}
	path := "/projects/" + projectID + "/geometries/" + geometryID + "/regions"
	if err := c.get(ctx, "list_geometry_regions", path, &regions); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(regions.Embedded))
	for _, r := range regions.Embedded {
		names = append(names, r.Name)
	}
	return names, nil
}

// --- Simulations ---

// CreateSimulation создаёт симуляцию и возвращает её ID.
func (c *Client) CreateSimulation(ctx context.Context, projectID string, spec SimulationSpec) (string, error) {
	var created SimulationSpec
	path := "/projects/" + projectID + "/simulations"
	if err := c.post(ctx, "create_simulation", path, spec, &created); err != nil {
		return "", err
	}
	return created.SimulationID, nil
}

// UpdateSimulation перезаписывает спецификацию симуляции
// (используется для привязки построенной сетки).
func (c *Client) UpdateSimulation(ctx context.Context, projectID, simulationID string, spec SimulationSpec) error {
	path := "/projects/" + projectID + "/simulations/" + simulationID
	return c.put(ctx, "update_simulation", path, spec, nil)
}

// --- Meshing ---

// CreateMeshOperation создаёт операцию построения сетки.
func (c *Client) CreateMeshOperation(ctx context.Context, projectID string, op MeshOperation) (*MeshOperation, error) {
	var created MeshOperation
	path := "/projects/" + projectID + "/meshoperations"
	if err := c.post(ctx, "create_mesh_operation", path, op, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// StartMeshOperation запускает меширование под конкретную симуляцию.
func (c *Client) StartMeshOperation(ctx context.Context, projectID, meshOperationID, simulationID string) error {
	path := "/projects/" + projectID + "/meshoperations/" + meshOperationID + "/start?simulationId=" + simulationID
	return c.post(ctx, "start_mesh_operation", path, nil, nil)
}

// GetMeshOperation возвращает состояние операции меширования.
func (c *Client) GetMeshOperation(ctx context.Context, projectID, meshOperationID string) (*MeshOperation, error) {
	var op MeshOperation
	path := "/projects/" + projectID + "/meshoperations/" + meshOperationID
	if err := c.get(ctx, "get_mesh_operation", path, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// --- Runs ---

// CreateRun создаёт запуск решателя.
func (c *Client) CreateRun(ctx context.Context, projectID, simulationID, name string) (string, error) {
	var run SimulationRun
	path := "/projects/" + projectID + "/simulations/" + simulationID + "/runs"
	if err := c.post(ctx, "create_run", path, SimulationRun{Name: name}, &run); err != nil {
		return "", err
	}
	return run.RunID, nil
}

// StartRun запускает решатель.
func (c *Client) StartRun(ctx context.Context, handle domain.JobHandle) error {
	if handle.IsZero() {
		return fmt.Errorf("%w: handle is empty", ErrInvalidHandle)
	}
	path := "/projects/" + handle.ProjectID + "/simulations/" + handle.SimulationID + "/runs/" + handle.RunID + "/start"
	return c.post(ctx, "start_run", path, nil, nil)
}

// GetRun возвращает состояние запуска: статус и прогресс.
func (c *Client) GetRun(ctx context.Context, handle domain.JobHandle) (domain.JobStatus, float64, error) {
	if handle.IsZero() {
		return "", 0, fmt.Errorf("%w: handle is empty", ErrInvalidHandle)
	}

	var run SimulationRun
	path := "/projects/" + handle.ProjectID + "/simulations/" + handle.SimulationID + "/runs/" + handle.RunID
	if err := c.get(ctx, "get_run", path, &run); err != nil {
		return "", 0, err
	}

	status, err := domain.ParseStatus(run.Status)
	if err != nil {
		// Неизвестный статус — нарушение контракта платформы, не сеть.
		return "", 0, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	return status, run.Progress, nil
}

// GetRunResults возвращает результаты завершённого запуска.
func (c *Client) GetRunResults(ctx context.Context, handle domain.JobHandle) (*domain.ResultSet, error) {
	if handle.IsZero() {
		return nil, fmt.Errorf("%w: handle is empty", ErrInvalidHandle)
	}

	var resp resultsResponse
	path := "/projects/" + handle.ProjectID + "/simulations/" + handle.SimulationID + "/runs/" + handle.RunID + "/results"
	if err := c.get(ctx, "get_run_results", path, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.ResultItem, 0, len(resp.Embedded))
	for _, e := range resp.Embedded {
		items = append(items, domain.ResultItem{
			Kind:        e.Kind,
			Name:        e.Name,
			DownloadURL: e.DownloadURL,
		})
	}

	return &domain.ResultSet{
		RunID:        handle.RunID,
		Progress:     1.0,
		Items:        items,
		WorkbenchURL: "https://www.simscale.com/workbench/?pid=" + handle.ProjectID,
	}, nil
}

// --- HTTP helpers ---

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPut, path, body, out)
}

// do выполняет запрос к платформе и маппит ответ в таксономию ошибок.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	// Ленивая проверка credential: ошибка при первом запросе, не при старте.
	if c.apiKey == "" {
		return fmt.Errorf("%w: API key is not set (SIMSCALE_API_KEY)", ErrAuth)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.APIRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.APIRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 400 {
		telemetry.APIRequests.WithLabelValues(op, "error").Inc()
		return c.mapError(op, resp.StatusCode, respBody)
	}

	telemetry.APIRequests.WithLabelValues(op, "ok").Inc()

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrAPI, err)
		}
	}

	c.logger.Debug("platform request", "operation", op, "status", resp.StatusCode)
	return nil
}

// mapError маппит HTTP-статус платформы в таксономию ошибок.
func (c *Client) mapError(op string, code int, body []byte) error {
	msg := platformMessage(body)

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrAuth, op, code, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrInvalidHandle, op, code, msg)
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrValidation, op, code, msg)
	case code >= 500:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrTransport, op, code, msg)
	default:
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrAPI, op, code, msg)
	}
}

// platformMessage извлекает сообщение из тела ошибки платформы.
func platformMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return truncate(string(body), 200)
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
