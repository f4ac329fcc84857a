package records

type InterviewItem struct {
	ID         string `json:"id"`
	PersonName string `json:"personName" validate:"omitempty,personname"`
	Purpose    string `json:"purpose"`
	Time       string `json:"time" validate:"omitempty,datetime=15:04"`
	Done       bool   `json:"done"`
}

// Interview is an interview schedule. PresidedBy is the interviewer.
type Interview struct {
	Meta

	PresidedBy string          `json:"presidedBy" validate:"required,personname"`
	Interviews []InterviewItem `json:"interviews" validate:"dive"`
}

func (*Interview) Kind() Kind { return KindInterviews }
