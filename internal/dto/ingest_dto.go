package dto

// IngestChunkMessage is the payload published for each content chunk awaiting
// embedding.
type IngestChunkMessage struct {
	SourceUrl  string `json:"source_url"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}
