// Package profile holds the intake form state: the raw text of the six
// wizard inputs and the structured Profile derived from it.
package profile

// Fields is the raw, untrimmed text of the intake inputs as the user typed
// them. It is the only place form entries live during a session.
type Fields struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Education string `json:"education"`
	Skills    string `json:"skills"`
	Projects  string `json:"projects"`
	Interests string `json:"interests"`
}

// Profile is the trimmed, list-split view of Fields.
type Profile struct {
	Name      string
	Email     string
	Education string
	Skills    []string
	Projects  string
	Interests []string
}

// Payload is the JSON body sent to the analysis endpoint.
type Payload struct {
	ResumeText string   `json:"resume_text"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`
}

// DemoFields are the sample entries the form can be prefilled with.
func DemoFields() Fields {
	return Fields{
		Name:      "Aryan Soni",
		Email:     "aryan.soni@example.com",
		Education: "B.Tech in Computer Science (2021-2025)",
		Skills:    "Python, Machine Learning, SQL, HTML, CSS, JavaScript",
		Projects:  "1. AI Chatbot using Python and NLP\n2. Portfolio Website\n3. Sales Data Analysis with Pandas",
		Interests: "Artificial Intelligence, Web Development, Data Analysis",
	}
}
