package config

import "time"

type UpstreamConfig interface {
	GetUpstreamBaseURL() string
	GetUpstreamTimeout() time.Duration
}

type Upstream struct{}

var _ UpstreamConfig = Upstream{}

func (Upstream) GetUpstreamBaseURL() string {
	return GetEnv("ETLAB_API_BASE_URL", "http://localhost:9090")
}

// The portal itself imposes no deadline, so the client always carries one.
func (Upstream) GetUpstreamTimeout() time.Duration {
	raw := GetEnv("ETLAB_API_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 30 * time.Second
	}
	return timeout
}
