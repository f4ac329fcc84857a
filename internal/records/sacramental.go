package records

// MeetingType is derived from the meeting date.
type MeetingType string

const (
	MeetingRegular   MeetingType = "regular"
	MeetingTestimony MeetingType = "testimony"
)

const (
	SupportTypeSupport = "support"
	SupportTypeRelease = "release"
)

type Speaker struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"omitempty,personname"`
	Topic string `json:"topic"`
}

// SupportAndReleaseItem records a sustaining or a release from a calling.
type SupportAndReleaseItem struct {
	ID          string `json:"id"`
	Type        string `json:"type" validate:"omitempty,oneof=support release"`
	FullName    string `json:"fullName" validate:"omitempty,personname"`
	CallingName string `json:"callingName"`
}

// CallingDesignationItem tracks the setting apart that follows a support.
// SupportItemID links it to its SupportAndReleaseItem.
type CallingDesignationItem struct {
	ID            string `json:"id"`
	SupportItemID string `json:"supportItemId"`
	FullName      string `json:"fullName" validate:"omitempty,personname"`
	CallingName   string `json:"callingName"`
	DesignatedBy  string `json:"designatedBy" validate:"omitempty,personname"`
}

type OrdinanceItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	PersonName  string `json:"personName" validate:"omitempty,personname"`
	PerformedBy string `json:"performedBy" validate:"omitempty,personname"`
}

// Sacramental is the minutes of a sacrament meeting.
type Sacramental struct {
	Meta

	PresidedBy         string                   `json:"presidedBy" validate:"required,personname"`
	DirectedBy         string                   `json:"directedBy" validate:"omitempty,personname"`
	Organist           string                   `json:"organist" validate:"omitempty,personname"`
	Chorister          string                   `json:"chorister" validate:"omitempty,personname"`
	OpeningHymn        string                   `json:"openingHymn"`
	SacramentHymn      string                   `json:"sacramentHymn"`
	IntermediateHymn   string                   `json:"intermediateHymn"`
	ClosingHymn        string                   `json:"closingHymn"`
	OpeningPrayer      string                   `json:"openingPrayer" validate:"omitempty,personname"`
	ClosingPrayer      string                   `json:"closingPrayer" validate:"omitempty,personname"`
	Announcements      string                   `json:"announcements" validate:"max=1000"`
	StakeAnnouncements string                   `json:"stakeAnnouncements" validate:"max=500"`
	MeetingType        MeetingType              `json:"meetingType"`
	Speakers           []Speaker                `json:"speakers" validate:"dive"`
	Testimonies        string                   `json:"testimonies"`
	SupportAndRelease  []SupportAndReleaseItem  `json:"supportAndRelease" validate:"dive"`
	Designations       []CallingDesignationItem `json:"callingDesignations" validate:"dive"`
	Ordinances         []OrdinanceItem          `json:"ordinances" validate:"dive"`
	Attendance         int                      `json:"attendance" validate:"gte=0"`
}

func (*Sacramental) Kind() Kind { return KindSacramental }
