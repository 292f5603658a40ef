package recognition

// Status is the status field reported by the recognition service.
type Status string

const (
	// StatusPending is an absent or null status: no result yet.
	StatusPending Status = ""
	// StatusProcessing acknowledges a start request.
	StatusProcessing Status = "processing"
	// StatusSuccess reports a recognized face.
	StatusSuccess Status = "success"
	// StatusUnknown reports a face that matched no known person.
	StatusUnknown Status = "unknown"
	// StatusError reports a failed recognition.
	StatusError Status = "error"
	// StatusTimeout reports that no face was captured in time.
	StatusTimeout Status = "timeout"
)

// Terminal reports whether the status ends polling.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// StartResponse is the body of POST /start_recognition.
type StartResponse struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Result is the body of GET /check_result.
type Result struct {
	Status      Status `json:"status"`
	Message     string `json:"message,omitempty"`
	FaceData    string `json:"face_data,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Pending reports whether the service has no result yet.
func (r Result) Pending() bool {
	return !r.Status.Terminal()
}

// Health is the body of GET /health.
type Health struct {
	CameraConnected bool   `json:"camera_connected"`
	KnownFacesCount int    `json:"known_faces_count"`
	Status          string `json:"status"`
}

// Healthy reports whether the service considers itself healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}
