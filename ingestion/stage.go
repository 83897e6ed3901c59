package ingestion

// Stage identifies a step of a source's integration run. Used for logging
// and for reporting where a failed run stopped.
type Stage int

const (
	StageFetching Stage = iota
	StageChunking
	StageEmbedding
	StageDeduplicating
	StageUpserting
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageFetching:      "fetching",
	StageChunking:      "chunking",
	StageEmbedding:     "embedding",
	StageDeduplicating: "deduplicating",
	StageUpserting:     "upserting",
	StageDone:          "done",
	StageFailed:        "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
