package engine

import (
	"math/rand"
	"testing"
)

func TestScaledClockFirstReadReturnsHostTick(t *testing.T) {
	host := NewMockTicks(1234)
	clock := NewScaledClock(host, 4)

	if got := clock.Ticks(); got != 1234 {
		t.Errorf("Expected first read to equal host tick 1234, got %d", got)
	}
}

func TestScaledClockRealSpeedTracksHost(t *testing.T) {
	host := NewMockTicks(500)
	clock := NewScaledClock(host, 1)
	clock.Ticks()

	steps := []uint64{1, 3, 16, 17, 0, 250, 1}
	for _, step := range steps {
		host.Advance(step)
		if got, want := clock.Ticks(), host.Ticks(); got != want {
			t.Fatalf("Expected scaled tick %d at divisor 1, got %d", want, got)
		}
	}
}

func TestScaledClockHalfSpeedSingleTicks(t *testing.T) {
	host := NewMockTicks(0)
	clock := NewScaledClock(host, 2)
	start := clock.Ticks()

	for i := 0; i < 101; i++ {
		host.Advance(1)
		clock.Ticks()
	}

	advance := clock.Ticks() - start
	if advance != 50 && advance != 51 {
		t.Errorf("Expected scaled advance of 50 or 51, got %d", advance)
	}
}

func TestScaledClockNoDriftAtFrequentReads(t *testing.T) {
	// 1/3 does not divide the fixed-point unit, truncation would lose ~6% per read
	host := NewMockTicks(0)
	clock := NewScaledClock(host, 3)
	start := clock.Ticks()

	for i := 0; i < 3000; i++ {
		host.Advance(1)
		clock.Ticks()
	}

	if advance := clock.Ticks() - start; advance != 1000 {
		t.Errorf("Expected scaled advance of exactly 1000, got %d", advance)
	}
}

func TestScaledClockChunkingIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		divisor := 1 + rng.Intn(9)
		host := NewMockTicks(uint64(rng.Intn(10000)))
		clock := NewScaledClock(host, divisor)
		start := clock.Ticks()

		var total uint64
		var last uint64 = start
		for i := 0; i < 200; i++ {
			step := uint64(rng.Intn(40))
			host.Advance(step)
			total += step

			got := clock.Ticks()
			if got < last {
				t.Fatalf("Scaled clock went backwards: %d after %d", got, last)
			}
			last = got
		}

		if want := start + total/uint64(divisor); last != want {
			t.Errorf("Trial %d divisor %d: expected %d, got %d", trial, divisor, want, last)
		}
	}
}

func TestScaledClockSetDivisorKeepsProgress(t *testing.T) {
	host := NewMockTicks(0)
	clock := NewScaledClock(host, 1)
	clock.Ticks()

	host.Advance(100)
	clock.SetDivisor(2)
	if got := clock.Ticks(); got != 100 {
		t.Errorf("Expected progress at old speed to be kept (100), got %d", got)
	}

	host.Advance(100)
	if got := clock.Ticks(); got != 150 {
		t.Errorf("Expected half-speed advance to 150, got %d", got)
	}
}

func TestScaledClockDivisorClamp(t *testing.T) {
	clock := NewScaledClock(NewMockTicks(0), 0)
	if got := clock.Divisor(); got != 1 {
		t.Errorf("Expected divisor 0 to clamp to 1, got %d", got)
	}

	clock.SetDivisor(-3)
	if got := clock.Divisor(); got != 1 {
		t.Errorf("Expected divisor -3 to clamp to 1, got %d", got)
	}
}

func TestScaledClockHostBackwards(t *testing.T) {
	host := NewMockTicks(1000)
	clock := NewScaledClock(host, 1)
	clock.Ticks()

	host.Advance(50)
	before := clock.Ticks()

	host.Set(900)
	if got := clock.Ticks(); got != before {
		t.Errorf("Expected scaled tick to hold at %d when host goes backwards, got %d", before, got)
	}

	host.Advance(10)
	if got := clock.Ticks(); got != before+10 {
		t.Errorf("Expected advance to resume from new host base, got %d", got)
	}
}
