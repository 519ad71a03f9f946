package user

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidNIM = errors.New("invalid nim")

// Program is a study program of the department.
type Program struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

var programs = map[string]Program{
	"H011": {Code: "H011", Name: "Matematika", Level: "Sarjana"},
	"H081": {Code: "H081", Name: "Aktuaria", Level: "Sarjana"},
	"H012": {Code: "H012", Name: "Matematika", Level: "Magister"},
	"H013": {Code: "H013", Name: "Matematika", Level: "Doktor"},
	"H071": {Code: "H071", Name: "Sistem Informasi", Level: "Sarjana"},
}

// H{program}{YY}{serial}, serial in 1000..1099
var reNIM = regexp.MustCompile(`^(H\d{3})(\d{2})(10\d{2})$`)

type NIMInfo struct {
	Program Program `json:"program"`
	Cohort  string  `json:"cohort"`
	Serial  string  `json:"serial"`
}

// ParseNIM accepts only student numbers of the department's programs.
func ParseNIM(nim string) (NIMInfo, error) {
	if len(nim) < 4 {
		return NIMInfo{}, fmt.Errorf("%w: too short", ErrInvalidNIM)
	}
	p, ok := programs[nim[:4]]
	if !ok {
		return NIMInfo{}, fmt.Errorf("%w: program code %s is not accepted", ErrInvalidNIM, nim[:4])
	}
	m := reNIM.FindStringSubmatch(nim)
	if m == nil {
		return NIMInfo{}, fmt.Errorf("%w: expected format %sYY10NN", ErrInvalidNIM, p.Code)
	}
	return NIMInfo{Program: p, Cohort: "20" + m[2], Serial: m[3]}, nil
}
