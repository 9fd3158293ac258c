// Package roster maps medical specialties to the doctors who can be booked.
package roster

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FallbackDoctor is offered when no doctor is listed for a specialty.
const FallbackDoctor = "General Doctor"

const (
	nameColumn      = "doctor's name"
	specialtyColumn = "speciality"
)

//go:embed default_doctors.csv
var defaultCSV []byte

var ErrMissingColumns = errors.New("roster: csv must have doctor's name and speciality columns")

// Roster is an immutable specialty to doctor index.
type Roster struct {
	byName map[string][]string
}

// Default returns the built-in roster.
func Default() *Roster {
	r, err := Parse(bytes.NewReader(defaultCSV))
	if err != nil {
		panic("roster: embedded csv is invalid: " + err.Error())
	}
	return r
}

// Parse reads a CSV with "Doctor's Name" and "speciality" headers.
// Header matching is case-insensitive; duplicate names within a specialty are dropped.
func Parse(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("roster: read header: %w", err)
	}
	nameIdx, specIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case nameColumn:
			nameIdx = i
		case specialtyColumn, "specialty":
			specIdx = i
		}
	}
	if nameIdx < 0 || specIdx < 0 {
		return nil, ErrMissingColumns
	}

	index := make(map[string][]string)
	seen := make(map[string]bool)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster: read row: %w", err)
		}
		if nameIdx >= len(rec) || specIdx >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameIdx])
		spec := strings.TrimSpace(rec[specIdx])
		if name == "" || spec == "" {
			continue
		}
		key := strings.ToLower(spec) + "\x00" + name
		if seen[key] {
			continue
		}
		seen[key] = true
		index[spec] = append(index[spec], name)
	}
	return &Roster{byName: index}, nil
}

// LoadFile parses a roster CSV from disk.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 parses a roster CSV stored in S3.
func LoadS3(ctx context.Context, api s3GetObjectAPI, bucket, key string) (*Roster, error) {
	if api == nil {
		return nil, errors.New("roster: s3 client required")
	}
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("roster: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return Parse(out.Body)
}

// DoctorsFor returns at most limit doctors for specialty, in roster order.
// Unknown specialties yield the single FallbackDoctor entry.
func (r *Roster) DoctorsFor(specialty string, limit int) []string {
	var docs []string
	for spec, names := range r.byName {
		if strings.EqualFold(spec, strings.TrimSpace(specialty)) {
			docs = names
			break
		}
	}
	if len(docs) == 0 {
		return []string{FallbackDoctor}
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	out := make([]string, len(docs))
	copy(out, docs)
	return out
}

// Specialties lists every specialty with at least one doctor.
func (r *Roster) Specialties() []string {
	out := make([]string, 0, len(r.byName))
	for spec := range r.byName {
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}
