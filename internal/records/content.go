package records

// HasContent reports whether any field worth keeping a draft of is filled in.
func HasContent(r Record) bool {
	m := r.GetMeta()
	switch v := r.(type) {
	case *Sacramental:
		return v.PresidedBy != "" || v.DirectedBy != "" || m.Date != "" ||
			v.OpeningHymn != "" || v.Announcements != "" ||
			len(v.SupportAndRelease) > 0 || len(v.Ordinances) > 0
	case *Baptismal:
		return v.PresidedBy != "" || m.Date != "" ||
			len(v.Speakers) > 0 || len(v.Ordinances) > 0 || len(v.Witnesses) > 0
	case *Bishopric:
		return v.PresidedBy != "" || m.Date != "" || len(v.Attendees) > 0 || len(v.ActionItems) > 0
	case *WardCouncil:
		return v.PresidedBy != "" || m.Date != "" || len(v.Attendees) > 0 || len(v.ActionItems) > 0
	case *Interview:
		return v.PresidedBy != "" || m.Date != "" || len(v.Interviews) > 0
	}
	return false
}
