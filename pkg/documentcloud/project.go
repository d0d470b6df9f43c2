package documentcloud

// Project is a project returned by the API: a named grouping of documents.
// It exposes the decoded fields and nothing else.
type Project struct {
	Record
}

// NewProject wraps a decoded project object.
func NewProject(fields map[string]interface{}) *Project {
	return &Project{Record: NewRecord("Project", fields)}
}

// ID returns the project id. Project ids are numeric in the API, so the
// JSON number is returned in its decimal form.
func (p *Project) ID() (string, error) {
	return p.GetString("id")
}
