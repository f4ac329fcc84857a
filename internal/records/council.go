package records

type ActionItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty,personname"`
	DueDate     Date   `json:"dueDate" validate:"omitempty,calendardate"`
	Done        bool   `json:"done"`
}

// Bishopric is the minutes of a bishopric meeting.
type Bishopric struct {
	Meta

	PresidedBy  string       `json:"presidedBy" validate:"required,personname"`
	Attendees   []string     `json:"attendees" validate:"dive,omitempty,personname"`
	Agenda      string       `json:"agenda"`
	ActionItems []ActionItem `json:"actionItems" validate:"dive"`
}

func (*Bishopric) Kind() Kind { return KindBishopric }

// WardCouncil is the minutes of a ward council meeting.
type WardCouncil struct {
	Meta

	PresidedBy  string       `json:"presidedBy" validate:"required,personname"`
	Attendees   []string     `json:"attendees" validate:"dive,omitempty,personname"`
	Agenda      string       `json:"agenda"`
	ActionItems []ActionItem `json:"actionItems" validate:"dive"`
}

func (*WardCouncil) Kind() Kind { return KindWardCouncil }
