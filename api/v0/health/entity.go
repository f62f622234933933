package health

// Status of the gateway
type Status string

const (
	Healthy   Status = "healthy"
	Unhealthy Status = "unhealthy"
)

// GetHealthRequest is a request to retrieve the health
// status of the component.
type GetHealthRequest struct{}

// GetHealthResponse is the response to the health request
type GetHealthResponse struct {
	Health Status `json:"health"`
}
