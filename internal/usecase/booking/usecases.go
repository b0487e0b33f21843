package booking

// UseCases bundles every booking use case for the HTTP layer.
type UseCases struct {
	Create       *CreateQuoteRequest
	Get          *GetBooking
	History      *GetHistory
	List         *ListBookings
	Stats        *BookingStats
	Capabilities *GetCapabilities
	Submit       *SubmitForReview
	Quote        *ProvideQuote
	Approve      *ApproveQuote
	Pay          *ProcessPayment
	AssignCrew   *AssignCrew
	StartWork    *StartWork
	CompleteWork *CompleteWork
	Review       *ReviewWork
	Cancel       *CancelBooking
	Refund       *ProcessRefund
}

func NewUseCases(deps Deps) *UseCases {
	return &UseCases{
		Create:       NewCreateQuoteRequest(deps),
		Get:          NewGetBooking(deps),
		History:      NewGetHistory(deps),
		List:         NewListBookings(deps),
		Stats:        NewBookingStats(deps),
		Capabilities: NewGetCapabilities(deps),
		Submit:       NewSubmitForReview(deps),
		Quote:        NewProvideQuote(deps),
		Approve:      NewApproveQuote(deps),
		Pay:          NewProcessPayment(deps),
		AssignCrew:   NewAssignCrew(deps),
		StartWork:    NewStartWork(deps),
		CompleteWork: NewCompleteWork(deps),
		Review:       NewReviewWork(deps),
		Cancel:       NewCancelBooking(deps),
		Refund:       NewProcessRefund(deps),
	}
}
