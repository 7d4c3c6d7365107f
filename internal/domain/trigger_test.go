package domain

import "testing"

// TestBlobEvent_IsPDF tests the extension filter applied before any analysis.
func TestBlobEvent_IsPDF(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want bool
	}{
		{name: "lower case", blob: "report.pdf", want: true},
		{name: "upper case", blob: "report.PDF", want: true},
		{name: "mixed case", blob: "scans/2024/Invoice.Pdf", want: true},
		{name: "text file", blob: "notes.txt", want: false},
		{name: "pdf in the middle", blob: "report.pdf.bak", want: false},
		{name: "no extension", blob: "pdf", want: false},
		{name: "empty", blob: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (BlobEvent{Name: tt.blob}).IsPDF(); got != tt.want {
				t.Errorf("IsPDF(%q) = %v, want %v", tt.blob, got, tt.want)
			}
		})
	}
}

func TestParseContentMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentMode
		wantErr bool
	}{
		{in: "bytes", want: ContentModeBytes},
		{in: " Signed-URL ", want: ContentModeSignedURL},
		{in: "sas", want: ContentModeSignedURL},
		{in: "stream", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseContentMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseContentMode(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseContentMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParseFailurePolicy(t *testing.T) {
	if p, err := ParseFailurePolicy("RETHROW"); err != nil || p != FailurePolicyRethrow {
		t.Fatalf("expected rethrow, got %q %v", p, err)
	}
	if p, err := ParseFailurePolicy("swallow"); err != nil || p != FailurePolicySwallow {
		t.Fatalf("expected swallow, got %q %v", p, err)
	}
	if _, err := ParseFailurePolicy("retry-forever"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
