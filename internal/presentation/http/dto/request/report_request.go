package request

// DateRangeRequest is an inclusive range of days, YYYY-MM-DD
type DateRangeRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}
