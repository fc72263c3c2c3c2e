package dto

// Feedback is a transient notification shown above a page.
type Feedback struct {
	Kind    string
	Message string
}

// Feedback kinds.
const (
	FeedbackSuccess = "success"
	FeedbackError   = "error"
)

// PageNav drives the pagination controls of a list page.
type PageNav struct {
	Page       int
	PageSize   int
	TotalPages int
	Sizes      []int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	PrevURL    string
	NextURL    string
	SizeLinks  []SizeLink
}

// SizeLink switches the list to another page size.
type SizeLink struct {
	Size    int
	URL     string
	Current bool
}

// FormPage is the view model shared by student and enrollment forms.
type FormPage struct {
	Title    string
	Action   string
	Edit     bool
	Input    interface{}
	Errors   map[string]string
	Feedback *Feedback
	Drafts   bool
	Options  FormOptions
}

// FormOptions are select choices rendered by the forms.
type FormOptions struct {
	DocumentTypes []string
	Years         []string
	Periods       []string
}

// ConfirmPage asks the user to confirm a delete or restore.
type ConfirmPage struct {
	Title   string
	Message string
	Action  string
	Cancel  string
}
