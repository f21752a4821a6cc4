package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := ShowProgress(ctx, "Testing", func() error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	// outside a terminal fn runs to completion regardless of ctx
	_ = err
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantErr: false,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return errors.New("step error") }},
			},
			wantErr: true,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgressWithSteps(ctx, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps_StopsAtFirstError(t *testing.T) {
	ran := 0
	steps := []ProgressStep{
		{Message: "Formatting export", Fn: func() error { ran++; return errors.New("boom") }},
		{Message: "Saving export", Fn: func() error { ran++; return nil }},
	}

	err := ShowProgressWithSteps(context.Background(), steps)
	if err == nil {
		t.Fatal("ShowProgressWithSteps() error = nil, want error")
	}
	if ran != 1 {
		t.Errorf("ShowProgressWithSteps() ran %d steps, want 1", ran)
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Error("IsTerminal() on a buffer = true, want false")
	}
}
