package app

// RegistryOperation tracks a CLI operation that may mutate the registry.
// Operations are created in memory with ID=0. Only mutating commands
// persist them (giving them an auto-increment ID from the database).
type RegistryOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewRegistryOperation creates a new in-memory registry operation.
func NewRegistryOperation(operation, parameters string) *RegistryOperation {
	return &RegistryOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *RegistryOperation) Persisted() bool {
	return op.ID != 0
}
