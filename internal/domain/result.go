package domain

// ResultSet — результаты завершённой задачи.
//
// Возвращается только когда статус FINISHED. После получения —
// read-only: повторный fetch с тем же хэндлом возвращает
// идентичные данные (идемпотентное чтение).
type ResultSet struct {
	// RunID — идентификатор запуска, которому принадлежат результаты.
	RunID string `json:"run_id"`

	// Progress — финальный прогресс (1.0 для завершённого запуска).
	Progress float64 `json:"progress"`

	// Items — элементы результата, как их отдаёт платформа.
	Items []ResultItem `json:"items"`

	// WorkbenchURL — ссылка на результаты в веб-интерфейсе платформы.
	WorkbenchURL string `json:"workbench_url,omitempty"`
}

// ResultItem — один элемент результата (поле решения, график отклика).
type ResultItem struct {
	// Kind — категория результата (SOLUTION, PLOT).
	Kind string `json:"kind"`

	// Name — имя результата (например, "displacement").
	Name string `json:"name"`

	// DownloadURL — ссылка на скачивание данных.
	DownloadURL string `json:"download_url,omitempty"`
}
