package domain

// ProgramStatus indicates the lifecycle state of a program.
type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "ACTIVE"
	ProgramCompleted ProgramStatus = "COMPLETED"
	ProgramSuspended ProgramStatus = "SUSPENDED"
)

// Program is the organizational unit that owns expenses, sales and budgets.
type Program struct {
	ProgramID   string        `json:"programID"` // Primary Key (UUID)
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProgramStatus `json:"status"`
	AuditFields
}
