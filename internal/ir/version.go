package ir

// Version constants for the domain model schema and engine.
const (
	// IRVersion is the domain model schema version.
	IRVersion = "1"

	// EngineVersion is the QACO engine version.
	EngineVersion = "0.1.0"
)
