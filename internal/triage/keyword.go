package triage

import (
	"context"
	"fmt"
	"strings"
)

type keywordRule struct {
	keyword   string
	specialty string
}

// Order matters: the first matching keyword wins.
var keywordRules = []keywordRule{
	{"fever", "Primary Care Doctor"},
	{"cough", "Pulmonologist"},
	{"chest pain", "Cardiologist"},
	{"skin", "Dermatologist"},
	{"eye", "Ophthalmologist"},
	{"tooth", "Dentist"},
	{"joint", "Orthopedic Surgeon"},
	{"stomach", "Gastroenterologist"},
	{"head", "Neurologist"},
	{"dizz", "Neurologist"},
	{"back", "Orthopedic Surgeon"},
	{"throat", "Ear, Nose & Throat Doctor"},
	{"ear", "Ear, Nose & Throat Doctor"},
	{"nose", "Ear, Nose & Throat Doctor"},
	{"nausea", "Gastroenterologist"},
	{"vomit", "Gastroenterologist"},
	{"anxiety", "Psychiatrist"},
	{"depression", "Psychiatrist"},
	{"child", "Pediatrician"},
	{"breath", "Pulmonologist"},
	{"urin", "Urologist"},
	{"heart", "Cardiologist"},
}

// KeywordStrategy matches symptom substrings. It never fails.
type KeywordStrategy struct{}

func (KeywordStrategy) Name() string { return "keyword" }

func (KeywordStrategy) Classify(_ context.Context, symptoms string) (Result, error) {
	lower := strings.ToLower(symptoms)
	for _, rule := range keywordRules {
		if strings.Contains(lower, rule.keyword) {
			return Result{
				Specialty:  rule.specialty,
				Confidence: ConfidenceLow,
				Reasoning:  fmt.Sprintf("Keyword match: '%s'", rule.keyword),
				Source:     "keyword",
			}, nil
		}
	}
	return Result{
		Specialty:  DefaultSpecialty,
		Confidence: ConfidenceLow,
		Reasoning:  "No specific symptoms identified",
		Source:     "keyword",
	}, nil
}
