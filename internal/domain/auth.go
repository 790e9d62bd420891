package domain

// SubjectType differentiates locally registered users from directory-backed
// specialists in issued tokens.
type SubjectType string

const (
	SubjectTypeUser       SubjectType = "USER"
	SubjectTypeSpecialist SubjectType = "SPECIALIST"
)
