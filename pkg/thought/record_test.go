package thought

import (
	"testing"

	apperr "github.com/gothink/gothink/pkg/errors"
)

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		wantCode string
	}{
		{
			name:   "minimal valid",
			record: Record{Text: "t", ThoughtNumber: 1, TotalThoughts: 1},
		},
		{
			name: "valid revision",
			record: Record{
				Text:           "rethink",
				ThoughtNumber:  2,
				TotalThoughts:  2,
				IsRevision:     true,
				RevisesThought: 1,
			},
		},
		{
			name:     "zero thought number",
			record:   Record{Text: "t", ThoughtNumber: 0, TotalThoughts: 1},
			wantCode: "INVALID_THOUGHT_NUMBER",
		},
		{
			name:     "negative thought number",
			record:   Record{Text: "t", ThoughtNumber: -3, TotalThoughts: 1},
			wantCode: "INVALID_THOUGHT_NUMBER",
		},
		{
			name:     "zero total thoughts",
			record:   Record{Text: "t", ThoughtNumber: 1, TotalThoughts: 0},
			wantCode: "INVALID_TOTAL_THOUGHTS",
		},
		{
			name:     "revision without target",
			record:   Record{Text: "t", ThoughtNumber: 2, TotalThoughts: 2, IsRevision: true},
			wantCode: "INVALID_REVISION_TARGET",
		},
		{
			name: "revision with negative target",
			record: Record{
				Text:           "t",
				ThoughtNumber:  2,
				TotalThoughts:  2,
				IsRevision:     true,
				RevisesThought: -1,
			},
			wantCode: "INVALID_REVISION_TARGET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !apperr.IsValidation(err) {
				t.Fatalf("Validate() = %v, want a validation error", err)
			}
			ae, ok := apperr.As(err)
			if !ok || ae.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestRecord_ValidateIgnoresRevisionTargetWhenNotRevising(t *testing.T) {
	r := Record{Text: "t", ThoughtNumber: 1, TotalThoughts: 1, RevisesThought: 9}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil when IsRevision is unset", err)
	}
}
