package pipeline

// CreateStageInput holds the validated payload to create a pipeline stage.
type CreateStageInput struct {
	Name        string
	Order       int
	IsDefault   *bool
	Probability *float64
}

// UpdateStageInput holds optional mutation values; nil fields are left
// untouched.
type UpdateStageInput struct {
	Name        *string
	Order       *int
	IsDefault   *bool
	Probability *float64
}
