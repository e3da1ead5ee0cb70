package main

import (
	"context"
	"testing"
)

func TestSetupTracing_NoopWhenDisabled(t *testing.T) {
	shutdown, err := setupTracing(context.Background(), "test", "http://localhost:4318", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupTracing_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := setupTracing(context.Background(), "test", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
