package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		Name:          "João Silva",
		Email:         "joao@example.com",
		Age:           "45",
		CPF:           "12345678901",
		HealthCardID:  "123456789",
		FamilyHistory: "sim",
	}
}

func TestValidate_Valid(t *testing.T) {
	res := Validate(validSubmission())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Nil(t, First(validSubmission()))
}

func TestValidate_ShortCPF(t *testing.T) {
	s := Submission{
		Name:          "Maria Santos",
		Email:         "maria@example.com",
		Age:           "50",
		CPF:           "123",
		FamilyHistory: "não",
	}

	res := Validate(s)
	require.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)

	found := false
	for _, msg := range res.Errors {
		if strings.Contains(msg, "11 dígitos") {
			found = true
		}
	}
	assert.True(t, found, "expected a CPF length error, got %v", res.Errors)
}

func TestFirst_RuleOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		rule   string
	}{
		{"missing name", func(s *Submission) { s.Name = "" }, "required"},
		{"missing email", func(s *Submission) { s.Email = "  " }, "required"},
		{"missing cpf", func(s *Submission) { s.CPF = "" }, "required"},
		{"missing age", func(s *Submission) { s.Age = "" }, "required"},
		{"cpf with letters", func(s *Submission) { s.CPF = "1234567890a" }, "cpf"},
		{"cpf too long", func(s *Submission) { s.CPF = "123456789012" }, "cpf"},
		{"cpf checked before email", func(s *Submission) { s.CPF = "1"; s.Email = "bad" }, "cpf"},
		{"email without at", func(s *Submission) { s.Email = "joao.example.com" }, "email"},
		{"email without dot", func(s *Submission) { s.Email = "joao@example" }, "email"},
		{"email with space", func(s *Submission) { s.Email = "jo ao@example.com" }, "email"},
		{"age negative", func(s *Submission) { s.Age = "-1" }, "age"},
		{"age too high", func(s *Submission) { s.Age = "151" }, "age"},
		{"age not a number", func(s *Submission) { s.Age = "abc" }, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			v := First(s)
			require.NotNil(t, v)
			assert.Equal(t, tt.rule, v.Rule)
			assert.Equal(t, v.Message, v.Error())
		})
	}
}

func TestFirst_AgeBoundaries(t *testing.T) {
	for _, age := range []Age{"0", "150", " 45 "} {
		s := validSubmission()
		s.Age = age
		assert.Nil(t, First(s), "age %q should be accepted", age)
	}
}

func TestAge_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Age
		n     int
	}{
		{`{"idade": "45"}`, "45", 45},
		{`{"idade": 45}`, "45", 45},
		{`{"idade": 45.9}`, "45.9", 45},
		{`{"idade": null}`, "", 0},
	}

	for _, tt := range tests {
		var s Submission
		require.NoError(t, json.Unmarshal([]byte(tt.input), &s), tt.input)
		assert.Equal(t, tt.want, s.Age)
		if tt.want != "" {
			n, ok := s.Age.Int()
			assert.True(t, ok)
			assert.Equal(t, tt.n, n)
		}
	}

	var s Submission
	assert.Error(t, json.Unmarshal([]byte(`{"idade": true}`), &s))
}
