package dto

type SearchRequest struct {
	SearchInput string `json:"searchInput" validate:"required,max=100"`
}

// SearchHit carries the identifier, the current year and only the field the
// search matched on.
type SearchHit struct {
	ID               string  `json:"id"`
	CurrentYear      *string `json:"currentyear"`
	Phone            *string `json:"phone,omitempty"`
	HallTicketNumber *string `json:"htno,omitempty"`
	Email            *string `json:"student_email,omitempty"`
	Name             *string `json:"name,omitempty"`
}

// SearchField is the canonical field a search input is matched against.
type SearchField string

const (
	FieldPhone            SearchField = "phone"
	FieldHallTicketNumber SearchField = "hallTicketNumber"
	FieldEmail            SearchField = "email"
	FieldName             SearchField = "name"
)

type MatchKind string

const (
	MatchExact                    MatchKind = "exact"
	MatchPrefixCaseInsensitive    MatchKind = "prefix"
	MatchSubstringCaseInsensitive MatchKind = "substring"
)
