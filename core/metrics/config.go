package metrics

// Config defines settings for metrics exposition.
type Config struct {
	PrometheusEnabled bool `json:"prometheus_enabled"`
}
