package date

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the range between two dates, boundaries included.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days from the start to the end of the range.
func (r Range) Days() int { return DaysBetween(r.From, r.To) }

func (r Range) String() string { return r.From.String() + " to " + r.To.String() }
