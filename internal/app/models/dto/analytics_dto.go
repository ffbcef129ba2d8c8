package dto

// OverviewStats is the analytics dashboard summary
type OverviewStats struct {
	TotalUsers            int64   `json:"totalUsers"`
	ActiveUsers           int64   `json:"activeUsers"`
	Trainings             int64   `json:"trainings"`
	Policies              int64   `json:"policies"`
	LibraryResources      int64   `json:"libraryResources"`
	Surveys               int64   `json:"surveys"`
	News                  int64   `json:"news"`
	PendingSubmissions    int64   `json:"pendingSubmissions"`
	Enrollments           int64   `json:"enrollments"`
	CompletedEnrollments  int64   `json:"completedEnrollments"`
	TrainingCompletion    float64 `json:"trainingCompletionRate" example:"62.5"`
	PolicyAcknowledgement float64 `json:"policyAcknowledgementRate" example:"81.25"`
}

// TrainingStats aggregates enrollments and quiz attempts of one training
type TrainingStats struct {
	TrainingID     int64   `json:"trainingId"`
	Title          string  `json:"title"`
	Enrolled       int64   `json:"enrolled"`
	InProgress     int64   `json:"inProgress"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	Attempts       int64   `json:"attempts"`
	AverageScore   float64 `json:"averageScore"`
	PassRate       float64 `json:"passRate"`
}

// PolicyStats aggregates acknowledgements of one policy
type PolicyStats struct {
	PolicyID        int64   `json:"policyId"`
	Title           string  `json:"title"`
	Acknowledged    int64   `json:"acknowledged"`
	ActiveUsers     int64   `json:"activeUsers"`
	AcknowledgeRate float64 `json:"acknowledgeRate"`
}

// OptionStat is the distribution entry of one choice
type OptionStat struct {
	Option  string  `json:"option"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// QuestionResult summarises the answers to one survey question
type QuestionResult struct {
	QuestionID    int64        `json:"questionId"`
	Text          string       `json:"text"`
	QuestionType  string       `json:"questionType"`
	Answered      int64        `json:"answered"`
	Options       []OptionStat `json:"options,omitempty"`
	TextAnswers   []string     `json:"textAnswers,omitempty"`
	AverageRating *float64     `json:"averageRating,omitempty"`
}

// SurveyResults aggregates the responses to a survey
type SurveyResults struct {
	SurveyID     int64            `json:"surveyId"`
	Title        string           `json:"title"`
	Responses    int64            `json:"responses"`
	ActiveUsers  int64            `json:"activeUsers"`
	ResponseRate float64          `json:"responseRate"`
	Questions    []QuestionResult `json:"questions"`
}
