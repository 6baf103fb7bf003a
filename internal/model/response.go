package model

// AmplitudeEntry is one basis index of a state vector response
type AmplitudeEntry struct {
	Real        string `json:"Real"`
	Imaginary   string `json:"Imaginary"`
	Probability string `json:"Probability"`
}

// StateResponse is the wire shape of an analytic state-vector run
type StateResponse struct {
	State map[string]AmplitudeEntry `json:"State"`
}

// RowEntry is one row of a density matrix response
type RowEntry struct {
	Row         string `json:"Row"`
	Probability string `json:"Probability"`
}

// DensityMatrixResponse is the wire shape of an analytic density-matrix run
type DensityMatrixResponse struct {
	DensityMatrix map[string]RowEntry `json:"DensityMatrix"`
}

// MemoryResponse is the wire shape of a sampled run
type MemoryResponse struct {
	Memory map[string]uint64 `json:"Memory"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}
