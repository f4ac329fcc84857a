package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dmitrijs2005/wardminutes/internal/records"
)

func presider(r records.Record) string {
	switch v := r.(type) {
	case *records.Sacramental:
		return v.PresidedBy
	case *records.Baptismal:
		return v.PresidedBy
	case *records.Bishopric:
		return v.PresidedBy
	case *records.WardCouncil:
		return v.PresidedBy
	case *records.Interview:
		return v.PresidedBy
	}
	return ""
}

func detail(r records.Record) string {
	switch v := r.(type) {
	case *records.Sacramental:
		return fmt.Sprintf("%s, %d speakers", v.MeetingType, len(v.Speakers))
	case *records.Baptismal:
		return fmt.Sprintf("%d ordinances", len(v.Ordinances))
	case *records.Bishopric:
		return fmt.Sprintf("%d action items", len(v.ActionItems))
	case *records.WardCouncil:
		return fmt.Sprintf("%d action items", len(v.ActionItems))
	case *records.Interview:
		return fmt.Sprintf("%d interviews", len(v.Interviews))
	}
	return ""
}

// printTable writes one line per record.
func printTable(w io.Writer, rs []records.Record) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No records")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tPRESIDED BY\tDETAIL")
	for _, r := range rs {
		m := r.GetMeta()
		date := string(m.Date)
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, date, m.CurrentStatus(), presider(r), detail(r))
	}
	_ = tw.Flush()
}

func printRecord(w io.Writer, r records.Record) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printFieldErrors(w io.Writer, errs records.Errors) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, errs[k])
	}
}
