package contentpath_test

import (
	"testing"

	"github.com/campus-content-api/internal/contentpath"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	paths := []contentpath.ContentPath{
		{Year: "2024", Semester: "2", Branch: "cse", Subject: "dbms", ContentType: "video-lecs"},
		{Year: "2023-24", Semester: "1", Branch: "ece", Subject: "signals", ContentType: "notes"},
		{Year: "2025", Semester: "6", Branch: "mech-a", Subject: "thermo-2", ContentType: "question-banks"},
	}

	for _, p := range paths {
		key, err := contentpath.Encode(p)
		if err != nil {
			t.Fatalf("Encode(%v) failed: %v", p, err)
		}

		decoded, err := contentpath.Decode(key)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", key, err)
		}
		if decoded != p {
			t.Errorf("round trip mismatch: encoded %v, decoded %v", p, decoded)
		}
	}
}

func TestEncodeSemesterPrefix(t *testing.T) {
	p := contentpath.ContentPath{Year: "2024", Semester: "2", Branch: "cse", Subject: "dbms", ContentType: "notes"}
	key, err := contentpath.Encode(p)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "2024.sem-2.cse.dbms.notes"
	if key != want {
		t.Errorf("Expected key %q, got %q", want, key)
	}
}

func TestEncodeInvalidSegments(t *testing.T) {
	tests := []struct {
		name string
		path contentpath.ContentPath
	}{
		{"empty subject", contentpath.ContentPath{Year: "2024", Semester: "2", Branch: "cse", Subject: "", ContentType: "notes"}},
		{"separator in subject", contentpath.ContentPath{Year: "2024", Semester: "2", Branch: "cse", Subject: "db.ms", ContentType: "notes"}},
		{"whitespace in branch", contentpath.ContentPath{Year: "2024", Semester: "2", Branch: "cse a", Subject: "dbms", ContentType: "notes"}},
		{"unicode in year", contentpath.ContentPath{Year: "２０２４", Semester: "2", Branch: "cse", Subject: "dbms", ContentType: "notes"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := contentpath.Encode(tc.path); err == nil {
				t.Errorf("Expected error for %v, got nil", tc.path)
			}
		})
	}
}

func TestDecodeMalformedKeys(t *testing.T) {
	keys := []string{
		"",
		"2024.sem-2.cse.dbms",
		"2024.sem-2.cse.dbms.notes.extra",
		"2024.2.cse.dbms.notes", // missing sem- prefix
	}

	for _, key := range keys {
		if _, err := contentpath.Decode(key); err == nil {
			t.Errorf("Expected error decoding %q, got nil", key)
		}
	}
}
