package dto

// SearchResult is one hit of a global search
type SearchResult struct {
	Type    string `json:"type" example:"training" enums:"training,policy,library,news,survey,template"`
	ID      int64  `json:"id" example:"12"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Link    string `json:"link" example:"/trainings/12"`
}

// SearchResponse groups search hits
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}
