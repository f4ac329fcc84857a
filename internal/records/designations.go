package records

// SyncDesignations keeps the calling designations of a sacrament meeting in
// step with its support items. A designation is linked to its support item
// by SupportItemID:
//   - every support item gets exactly one linked designation, adopting an
//     unlinked designation with the same name pair or else a new stub;
//   - linked designations follow the current names of their support item;
//   - designations whose support item is gone are removed.
//
// Unlinked designations survive only while some support item still carries
// their name pair. Other kinds are left untouched.
func SyncDesignations(r Record) {
	s, ok := r.(*Sacramental)
	if !ok {
		return
	}

	fillItemIDs(s.SupportAndRelease)

	var supports []SupportAndReleaseItem
	byID := map[string]SupportAndReleaseItem{}
	for _, it := range s.SupportAndRelease {
		if it.Type == SupportTypeSupport {
			supports = append(supports, it)
			byID[it.ID] = it
		}
	}

	ds := append([]CallingDesignationItem(nil), s.Designations...)
	keep := make([]bool, len(ds))
	linked := map[string]bool{}

	for i := range ds {
		sup, ok := byID[ds[i].SupportItemID]
		if ds[i].SupportItemID == "" || !ok || linked[sup.ID] {
			continue
		}
		linked[sup.ID] = true
		ds[i].FullName = sup.FullName
		ds[i].CallingName = sup.CallingName
		keep[i] = true
	}

	var stubs []CallingDesignationItem
	for _, sup := range supports {
		if linked[sup.ID] {
			continue
		}
		linked[sup.ID] = true

		adopted := false
		for i := range ds {
			if keep[i] || ds[i].SupportItemID != "" || !samePair(ds[i], sup) {
				continue
			}
			ds[i].SupportItemID = sup.ID
			keep[i] = true
			adopted = true
			break
		}
		if !adopted {
			stubs = append(stubs, CallingDesignationItem{
				ID:            NewItemID(),
				SupportItemID: sup.ID,
				FullName:      sup.FullName,
				CallingName:   sup.CallingName,
			})
		}
	}

	for i := range ds {
		if keep[i] || ds[i].SupportItemID != "" {
			continue
		}
		for _, sup := range supports {
			if samePair(ds[i], sup) {
				keep[i] = true
				break
			}
		}
	}

	out := make([]CallingDesignationItem, 0, len(ds)+len(stubs))
	for i, d := range ds {
		if keep[i] {
			out = append(out, d)
		}
	}
	s.Designations = append(out, stubs...)
}

func samePair(d CallingDesignationItem, s SupportAndReleaseItem) bool {
	return d.FullName == s.FullName && d.CallingName == s.CallingName
}
