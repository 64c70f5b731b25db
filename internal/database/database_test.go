package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
)

func TestRecordQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		operation string
		err       error
	}{
		{name: "successful query", operation: "test_operation"},
		{name: "failed query", operation: "test_operation", err: errors.New("test error")},
		{name: "empty operation name", operation: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// Must not panic for any label combination.
			recordQuery(tt.operation, time.Now(), tt.err)
		})
	}
}

func TestWriteResultString(t *testing.T) {
	tests := []struct {
		result WriteResult
		want   string
	}{
		{WriteInserted, "inserted"},
		{WriteAlreadyExists, "already_exists"},
		{WriteFailed, "failed"},
		{WriteResult(42), "failed"},
	}

	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("WriteResult(%d).String() = %q, want %q", int(tt.result), got, tt.want)
		}
	}
}

func TestIsSignatureConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("UNIQUE constraint failed: wallpapers.signature"), want: false},
		{
			name: "foreign key violation",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			want: false,
		},
		{
			name: "wrapped primary key violation",
			err:  fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSignatureConflict(tt.err); got != tt.want {
				t.Errorf("isSignatureConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
