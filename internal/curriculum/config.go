package curriculum

import "strings"

// DocumentConfig describes where a curriculum's course list sits inside its
// degree plan document.
type DocumentConfig struct {
	Program        string
	CurriculumType string
	Header         string
	Footer         string
	OffsetText     string
}

// Configs are the known degree plan documents.
var Configs = []DocumentConfig{
	{
		Program:        ComputerScience,
		CurriculumType: "Computer Science",
		Header:         "Computer Science Curriculum",
		Footer:         "Total Credits: 129",
		OffsetText:     "Computer Science Curriculum\n(Numerals in front of courses indicate credits)\n",
	},
	{
		Program:        Cybersecurity,
		CurriculumType: "Cybersecurity",
		Header:         "Cybersecurity Curriculum",
		Footer:         "Total Credits: 126",
		OffsetText:     "Cybersecurity Curriculum\n(Numerals in front of courses indicate credits)\n",
	},
	{
		Program:        SoftwareEngineering,
		CurriculumType: "Software Engineering",
		Header:         "Software Engineering Curriculum",
		Footer:         "Total Credits: 129",
		OffsetText:     "Software Engineering Curriculum\n(Numerals in front of courses indicate credits)\n",
	},
}

// Detect returns the first config whose header appears in text.
func Detect(text string) (DocumentConfig, bool) {
	for _, c := range Configs {
		if strings.Contains(text, c.Header) {
			return c, true
		}
	}
	return DocumentConfig{}, false
}

// ConfigFor returns the document config of a curriculum type or program key.
func ConfigFor(name string) (DocumentConfig, bool) {
	for _, c := range Configs {
		if strings.EqualFold(c.CurriculumType, name) || strings.EqualFold(c.Program, name) {
			return c, true
		}
	}
	return DocumentConfig{}, false
}
