package ir

// BindingMapping assigns one task to one candidate service.
// Either side may be nil in malformed strategy output.
type BindingMapping struct {
	Task             *Task             `json:"task"`
	CandidateService *CandidateService `json:"candidate_service"`
}

// Binding is one complete assignment of tasks to candidate services.
type Binding struct {
	BindingMappings []BindingMapping `json:"binding_mappings"`
}

// BindingSpace is the set of candidate bindings a strategy explores.
type BindingSpace struct {
	Bindings []Binding `json:"bindings"`
}

// Mapping builds a BindingMapping from values.
func Mapping(t Task, c CandidateService) BindingMapping {
	return BindingMapping{Task: &t, CandidateService: &c}
}
