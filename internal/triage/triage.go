// Package triage recommends a medical specialty for a symptom description.
package triage

import (
	"context"
	"strings"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// DefaultSpecialty is used whenever the symptoms are unclear.
const DefaultSpecialty = "Primary Care Doctor"

// Specialties is the fixed set a classifier may return.
var Specialties = []string{
	"Primary Care Doctor", "Cardiologist", "Dermatologist", "Neurologist",
	"Orthopedic Surgeon", "Pediatrician", "Psychiatrist", "Ear, Nose & Throat Doctor",
	"Ophthalmologist", "Dentist", "Gastroenterologist", "Pulmonologist",
	"Urologist",
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Result is a specialty recommendation.
type Result struct {
	Specialty  string
	Confidence Confidence
	Reasoning  string
	// Source names the strategy that produced the result.
	Source string
}

// Strategy is one way of classifying symptoms. Strategies may fail.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, symptoms string) (Result, error)
}

// Chain tries each strategy in order and finishes with keyword matching, so
// Classify always returns a specialty from Specialties.
type Chain struct {
	strategies []Strategy
	last       KeywordStrategy
	logger     *logging.Logger
}

func NewChain(logger *logging.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{strategies: kept, logger: logger}
}

func (c *Chain) Classify(ctx context.Context, symptoms string) Result {
	for _, s := range c.strategies {
		res, err := s.Classify(ctx, symptoms)
		if err != nil {
			c.logger.Warn("specialty strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		res.Specialty = Canonical(res.Specialty)
		if res.Source == "" {
			res.Source = s.Name()
		}
		return res
	}
	res, _ := c.last.Classify(ctx, symptoms)
	return res
}

// Canonical maps a specialty name onto Specialties, case-insensitively,
// falling back to DefaultSpecialty.
func Canonical(name string) string {
	name = strings.TrimSpace(strings.Trim(name, "*"))
	for _, s := range Specialties {
		if strings.EqualFold(s, name) {
			return s
		}
	}
	return DefaultSpecialty
}

func parseConfidence(v string) Confidence {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return ConfidenceHigh
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}
