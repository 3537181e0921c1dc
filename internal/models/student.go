package models

// Student identifies a learner; the planner only relies on the ID.
type Student struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	CoachName  string `db:"coach_name" json:"coachName,omitempty"`
	TermStatus string `db:"term_status" json:"termStatus,omitempty"`
	TermNumber string `db:"term_number" json:"termNumber,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search    string
	CoachName string
	Page      int
	PageSize  int
}

// Pagination describes paging metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
