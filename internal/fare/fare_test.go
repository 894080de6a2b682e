package fare

import (
	"context"
	"errors"
	"testing"
)

func TestEstimate(t *testing.T) {
	repo := NewMemoryRateRepository(Rate{
		VehicleType:     "car",
		BaseFare:        50,
		PerKm:           12,
		PerMin:          1.5,
		SurgeMultiplier: 1.2,
		MinFare:         60,
	})
	svc := NewService(repo)
	ctx := context.Background()

	// (50 + 10*12 + 20*1.5) * 1.2 = 240
	got, err := svc.Estimate(ctx, "car", 10, 20)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got != 240 {
		t.Fatalf("expected fare 240, got %v", got)
	}
}

func TestEstimateFloorsAtMinFare(t *testing.T) {
	repo := NewMemoryRateRepository(Rate{
		VehicleType: "auto",
		BaseFare:    10,
		PerKm:       5,
		PerMin:      0.5,
		MinFare:     35,
	})
	svc := NewService(repo)

	got, err := svc.Estimate(context.Background(), "auto", 1, 2)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got != 35 {
		t.Fatalf("expected min fare 35, got %v", got)
	}
}

func TestEstimateZeroSurgeTreatedAsOne(t *testing.T) {
	repo := NewMemoryRateRepository(Rate{
		VehicleType: "bike",
		BaseFare:    20,
		PerKm:       6,
		PerMin:      0.75,
	})
	svc := NewService(repo)

	// 20 + 5*6 + 10*0.75 = 57.5
	got, err := svc.Estimate(context.Background(), "bike", 5, 10)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got != 57.5 {
		t.Fatalf("expected 57.5, got %v", got)
	}
}

func TestEstimateUnknownVehicleType(t *testing.T) {
	svc := NewService(NewMemoryRateRepository())

	if _, err := svc.Estimate(context.Background(), "rickshaw", 1, 1); !errors.Is(err, ErrRateNotFound) {
		t.Fatalf("expected ErrRateNotFound, got %v", err)
	}
}
