package constants

// TaskKind is the canonical name for one of the derived model calls the
// pipeline runs against a document. Stable values (used in cache keys and
// log events).
type TaskKind string

const (
	TaskStructure TaskKind = "structure"
	TaskEntities  TaskKind = "extract_entities"
	TaskClassify  TaskKind = "classify"
	TaskSummarize TaskKind = "summarize"
)
