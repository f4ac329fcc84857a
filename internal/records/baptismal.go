package records

// Baptismal is the minutes of a baptismal service. Ordinances holds both
// baptisms and confirmations.
type Baptismal struct {
	Meta

	PresidedBy    string          `json:"presidedBy" validate:"required,personname"`
	DirectedBy    string          `json:"directedBy" validate:"omitempty,personname"`
	OpeningPrayer string          `json:"openingPrayer" validate:"omitempty,personname"`
	ClosingPrayer string          `json:"closingPrayer" validate:"omitempty,personname"`
	OpeningHymn   string          `json:"openingHymn"`
	ClosingHymn   string          `json:"closingHymn"`
	Speakers      []Speaker       `json:"speakers" validate:"dive"`
	Ordinances    []OrdinanceItem `json:"ordinances" validate:"dive"`
	Witnesses     []string        `json:"witnesses" validate:"dive,omitempty,personname"`
}

func (*Baptismal) Kind() Kind { return KindBaptismal }
