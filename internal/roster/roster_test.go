package roster

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const sampleCSV = `Doctor's Name,speciality
Dr. A,Cardiologist
Dr. B,Cardiologist
Dr. B,Cardiologist
Dr. C,Cardiologist
Dr. D,Cardiologist
Dr. E,Cardiologist
Dr. F,Cardiologist
Dr. G,Dermatologist
,Dermatologist
`

func TestDoctorsForCapsAndDedupes(t *testing.T) {
	r, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	docs := r.DoctorsFor("cardiologist", 5)
	want := []string{"Dr. A", "Dr. B", "Dr. C", "Dr. D", "Dr. E"}
	if strings.Join(docs, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, docs)
	}
	if got := r.DoctorsFor("Dermatologist", 5); len(got) != 1 || got[0] != "Dr. G" {
		t.Fatalf("expected blank names skipped, got %v", got)
	}
}

func TestDoctorsForUnknownSpecialty(t *testing.T) {
	r, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	docs := r.DoctorsFor("Urologist", 5)
	if len(docs) != 1 || docs[0] != FallbackDoctor {
		t.Fatalf("expected fallback doctor, got %v", docs)
	}
}

func TestDoctorsForReturnsCopy(t *testing.T) {
	r, _ := Parse(strings.NewReader(sampleCSV))
	docs := r.DoctorsFor("Cardiologist", 2)
	docs[0] = "mutated"
	if r.DoctorsFor("Cardiologist", 2)[0] != "Dr. A" {
		t.Fatal("caller mutation leaked into roster")
	}
}

func TestParseRejectsMissingColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("name,dept\nx,y\n")); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestDefaultRosterCoversSpecialties(t *testing.T) {
	r := Default()
	for _, spec := range []string{"Primary Care Doctor", "Ear, Nose & Throat Doctor", "Urologist"} {
		if docs := r.DoctorsFor(spec, 5); docs[0] == FallbackDoctor {
			t.Fatalf("expected doctors for %s", spec)
		}
	}
	if len(r.Specialties()) != 13 {
		t.Fatalf("expected 13 specialties, got %d", len(r.Specialties()))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(r.DoctorsFor("Cardiologist", 0)) != 6 {
		t.Fatalf("expected all six cardiologists without a limit")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	api := &fakeS3{body: sampleCSV}
	r, err := LoadS3(context.Background(), api, "rosters", "doctors.csv")
	if err != nil {
		t.Fatalf("load s3: %v", err)
	}
	if aws.ToString(api.input.Bucket) != "rosters" || aws.ToString(api.input.Key) != "doctors.csv" {
		t.Fatalf("unexpected s3 input %+v", api.input)
	}
	if r.DoctorsFor("Dermatologist", 5)[0] != "Dr. G" {
		t.Fatal("expected dermatologist from s3 roster")
	}

	if _, err := LoadS3(context.Background(), &fakeS3{err: errors.New("access denied")}, "b", "k"); err == nil {
		t.Fatal("expected s3 error")
	}
}
