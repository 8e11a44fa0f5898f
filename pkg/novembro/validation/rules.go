// Package validation holds the registration rule set shared by the form and
// the registration endpoint.
package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Age limits, inclusive.
const (
	MinAge = 0
	MaxAge = 150
)

var (
	cpfPattern   = regexp.MustCompile(`^[0-9]{11}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Age is a form age that decodes from either a JSON string or a JSON number.
type Age string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Age(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Age(n.String())
	return nil
}

// Int parses the age. Decimal input is truncated toward zero.
func (a Age) Int() (int, bool) {
	s := strings.TrimSpace(string(a))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// Submission is the registration form payload.
type Submission struct {
	Name          string `json:"nome"`
	Email         string `json:"email"`
	Age           Age    `json:"idade"`
	CPF           string `json:"cpf"`
	HealthCardID  string `json:"cartao_sus"`
	FamilyHistory string `json:"historico_familiar"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:          strings.TrimSpace(s.Name),
		Email:         strings.TrimSpace(s.Email),
		Age:           Age(strings.TrimSpace(string(s.Age))),
		CPF:           strings.TrimSpace(s.CPF),
		HealthCardID:  strings.TrimSpace(s.HealthCardID),
		FamilyHistory: strings.TrimSpace(s.FamilyHistory),
	}
}

// Rule is one named registration check.
type Rule struct {
	// Name identifies the rule.
	Name string
	// Message is shown to the visitor when the rule fails.
	Message string
	// Valid reports whether the submission satisfies the rule.
	Valid func(Submission) bool
}

// Rules is the ordered rule set. Both tiers report the first failing rule.
var Rules = []Rule{
	{
		Name:    "required",
		Message: "Por favor, preencha todos os campos obrigatórios.",
		Valid: func(s Submission) bool {
			return s.Name != "" && s.Email != "" && s.CPF != "" && s.Age != ""
		},
	},
	{
		Name:    "cpf",
		Message: "CPF deve conter 11 dígitos.",
		Valid: func(s Submission) bool {
			return cpfPattern.MatchString(s.CPF)
		},
	},
	{
		Name:    "email",
		Message: "E-mail inválido.",
		Valid: func(s Submission) bool {
			return emailPattern.MatchString(s.Email)
		},
	},
	{
		Name:    "age",
		Message: "Idade deve estar entre 0 e 150 anos.",
		Valid: func(s Submission) bool {
			if s.Age == "" {
				// Reported by the required rule.
				return true
			}
			n, ok := s.Age.Int()
			return ok && n >= MinAge && n <= MaxAge
		},
	},
}

// Violation is a failed rule.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

// Result collects every failed rule.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate runs every rule against the normalized submission.
func Validate(s Submission) Result {
	s = s.Normalize()
	res := Result{Errors: []string{}}
	for _, r := range Rules {
		if !r.Valid(s) {
			res.Errors = append(res.Errors, r.Message)
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// First returns the first failing rule, or nil when the submission is valid.
func First(s Submission) *Violation {
	s = s.Normalize()
	for _, r := range Rules {
		if !r.Valid(s) {
			return &Violation{Rule: r.Name, Message: r.Message}
		}
	}
	return nil
}
