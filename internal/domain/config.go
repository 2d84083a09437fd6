package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "resumatch:"

// MaxPlausibleYears caps experience estimates; larger values are treated as noise.
const MaxPlausibleYears = 50.0

// DefaultPageSize is the page size used when a query does not specify one.
const DefaultPageSize = 20

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model      string
	Dimensions int
}

// DefaultVectorConfig returns the default configuration tuned for Qwen3-Embedding-8B.
// The chunk index dimension must match the embedding model's output.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "Qwen3-Embedding-8B",
		Dimensions: 1024,
	}
}
