// Package holiday answers whether a calendar date is a working day in
// mainland China, accounting for weekends, statutory holidays and the
// make-up workdays that move weekend days into the working week.
//
// Lookups never fail. A date the calendar has no data for yields a Verdict
// with Status Unknown and a Cause; the caller decides what Unknown means.
package holiday
