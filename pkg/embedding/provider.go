package embedding

// Task types hint providers that distinguish query vs document embeddings.
const (
	TaskQuery    = "RETRIEVAL_QUERY"
	TaskDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// Returned vectors are unit-normalized so cosine distance is meaningful.
type EmbeddingProvider interface {
	Generate(text string, taskType string) ([]float32, error)
}
