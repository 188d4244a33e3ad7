package models

import (
	"testing"

	"github.com/ayush/movie-reviews/internal/apperr"
)

func ptr(f float64) *float64 { return &f }

func TestValidateCreateReview(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateReviewRequest
		wantMsg string
	}{
		{
			name: "valid",
			req:  CreateReviewRequest{MovieID: "m", Username: "u", Review: "good", Rating: ptr(4)},
		},
		{
			name: "zero rating is allowed",
			req:  CreateReviewRequest{MovieID: "m", Username: "u", Review: "bad", Rating: ptr(0)},
		},
		{
			name:    "missing rating",
			req:     CreateReviewRequest{MovieID: "m", Username: "u", Review: "ok"},
			wantMsg: "rating is required",
		},
		{
			name:    "missing movie",
			req:     CreateReviewRequest{Username: "u", Review: "ok", Rating: ptr(3)},
			wantMsg: "movieId is required",
		},
		{
			name:    "rating too high",
			req:     CreateReviewRequest{MovieID: "m", Username: "u", Review: "ok", Rating: ptr(6)},
			wantMsg: "rating must be at most 5",
		},
		{
			name:    "negative rating",
			req:     CreateReviewRequest{MovieID: "m", Username: "u", Review: "ok", Rating: ptr(-1)},
			wantMsg: "rating must be at least 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("Validate() error = %v, want validation error", err)
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("Validate() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateSignin(t *testing.T) {
	if err := Validate(SigninRequest{Username: "alice"}); err == nil || err.Error() != "password is required" {
		t.Fatalf("Validate() = %v, want password is required", err)
	}
}
