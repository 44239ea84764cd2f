package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
)

// Calendar is an Oracle backed by Data. Weekend and holiday membership is
// evaluated by a rickar/cal business calendar; make-up workdays are layered
// on top of it since they turn a weekend day back into a workday.
type Calendar struct {
	business *cal.BusinessCalendar
	years    map[int]bool
	makeUp   map[string]string
}

// NewCalendar validates data and builds a Calendar from it.
func NewCalendar(data Data) (*Calendar, error) {
	c := &Calendar{
		business: cal.NewBusinessCalendar(),
		years:    make(map[int]bool, len(data.Years)),
		makeUp:   make(map[string]string),
	}

	off := make(map[string]string)
	for _, year := range data.SortedYears() {
		c.years[year] = true
		entry := data.Years[year]
		for _, r := range entry.Holidays {
			if r.From.IsZero() || r.To.IsZero() {
				return nil, fmt.Errorf("holiday %q in %d: from and to are required", r.Name, year)
			}
			if r.To.Before(r.From.Time) {
				return nil, fmt.Errorf("holiday %q in %d: to %s is before from %s", r.Name, year, r.To, r.From)
			}
			for d := r.From.Time; !d.After(r.To.Time); d = d.AddDate(0, 0, 1) {
				key := d.Format(dateLayout)
				if prev, dup := off[key]; dup {
					return nil, fmt.Errorf("date %s listed for both %q and %q", key, prev, r.Name)
				}
				off[key] = r.Name
				c.business.AddHoliday(&cal.Holiday{
					Name:      r.Name,
					Type:      cal.ObservancePublic,
					Month:     d.Month(),
					Day:       d.Day(),
					StartYear: d.Year(),
					EndYear:   d.Year(),
					Func:      cal.CalcDayOfMonth,
				})
			}
		}
		for _, m := range entry.Workdays {
			if m.Date.IsZero() {
				return nil, fmt.Errorf("make-up workday %q in %d: date is required", m.Name, year)
			}
			key := m.Date.Format(dateLayout)
			if name, isOff := off[key]; isOff {
				return nil, fmt.Errorf("date %s is both holiday %q and make-up workday", key, name)
			}
			c.makeUp[key] = m.Name
		}
	}
	return c, nil
}

// NewEmbeddedCalendar builds a Calendar from the embedded data.
func NewEmbeddedCalendar() (*Calendar, error) {
	data, err := EmbeddedData()
	if err != nil {
		return nil, err
	}
	return NewCalendar(data)
}

// covers reports whether year has data.
func (c *Calendar) covers(year int) bool {
	return c.years[year]
}

// Lookup answers for the civil date of date in date's own location.
func (c *Calendar) Lookup(_ context.Context, date time.Time) Verdict {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	v := Verdict{Date: day}

	if !c.covers(y) {
		v.Status = Unknown
		v.Cause = fmt.Errorf("%w %d", ErrYearUnsupported, y)
		return v
	}

	if name, ok := c.makeUp[day.Format(dateLayout)]; ok {
		v.Status = Workday
		v.Name = name
		v.MakeUp = true
		return v
	}

	if actual, _, h := c.business.IsHoliday(day); actual && h != nil {
		v.Status = NonWorkday
		v.Name = h.Name
		return v
	}

	if c.business.IsWorkday(day) {
		v.Status = Workday
	} else {
		v.Status = NonWorkday
	}
	return v
}
