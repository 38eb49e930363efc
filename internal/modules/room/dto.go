package room

// RoomRequest is used for create and update. On update nil fields keep their
// stored value.
type RoomRequest struct {
	Name        *string  `json:"name" validate:"create_required,omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"create_required,omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"create_required,omitempty,gte=0,lte=10000"`
	Capacity    *int     `json:"capacity" validate:"create_required,omitempty,gte=1,lte=10"`
	HalfBoard   *bool    `json:"half_board"`
	SmartLockID *int64   `json:"smart_lock_id" validate:"omitempty,gt=0"`
}

type SearchQuery struct {
	StartDate string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"required,datetime=2006-01-02"`
	Persons   int    `form:"persons" validate:"omitempty,gte=1,lte=6"`
}

// CleaningWindowRequest carries HH:MM bounds on the current day.
type CleaningWindowRequest struct {
	From string `json:"from" validate:"required,datetime=15:04"`
	To   string `json:"to" validate:"required,datetime=15:04"`
}
