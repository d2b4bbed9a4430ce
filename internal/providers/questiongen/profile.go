package questiongen

import "strings"

// Profile is the structured content read from a resume.
type Profile struct {
	FullName       string           `json:"full_name"`
	Summary        string           `json:"summary"`
	Education      []Education      `json:"education"`
	Projects       []Project        `json:"projects"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Skills         []string         `json:"skills"`
	Advantages     []string         `json:"advantages"`
}

type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduation_year"`
}

type Project struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Technologies     []string `json:"technologies"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type WorkExperience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// Empty reports whether nothing usable was extracted.
func (p Profile) Empty() bool {
	return len(p.Projects) == 0 && len(p.WorkExperience) == 0 &&
		len(p.Skills) == 0 && len(p.Advantages) == 0 && strings.TrimSpace(p.Summary) == ""
}
