package model

// The four fixed subjects. Progress, points breakdowns and game catalogs
// are all keyed on this set.
const (
	SubjectMath    = "math"
	SubjectEnglish = "english"
	SubjectScience = "science"
	SubjectArt     = "art"
)

var Subjects = []string{SubjectMath, SubjectEnglish, SubjectScience, SubjectArt}

func ValidSubject(s string) bool {
	for _, subject := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
