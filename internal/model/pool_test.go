package model

import "testing"

func TestNormalizeAddress(t *testing.T) {
	got := NormalizeAddress(" 0x88E6A0c2dDD26FEEb64F039a2c41296FcB3f5640 ")
	if got != "0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640" {
		t.Fatalf("address mismatch: %s", got)
	}
	if got := NormalizeAddress("not-an-address"); got != "not-an-address" {
		t.Fatalf("non-hex address changed: %s", got)
	}
}

func TestCreatedDate(t *testing.T) {
	p := PoolRecord{CreatedAt: "2021-05-05T17:42:04Z"}
	if p.CreatedDate() != "2021-05-05" {
		t.Fatalf("date mismatch: %s", p.CreatedDate())
	}
	if (PoolRecord{CreatedAt: "2021"}).CreatedDate() != "2021" {
		t.Fatalf("short timestamp should be returned as is")
	}
}

func TestRankedEntryYield(t *testing.T) {
	e := RankedEntry{Yields: []YieldResult{{Window: Window24h, APY: 1}, {Window: Window30d, APY: 2}}}
	y, ok := e.Yield(Window30d)
	if !ok || y.APY != 2 {
		t.Fatalf("30d lookup failed: %+v %v", y, ok)
	}
	if _, ok := e.Yield(WindowCombined); ok {
		t.Fatalf("unexpected combined result")
	}
}

func TestRankedEntryLong(t *testing.T) {
	e := RankedEntry{Yields: []YieldResult{{Window: Window24h}, {Window: LongWindow(7), APY: 3}, {Window: WindowCombined}}}
	y, ok := e.Long()
	if !ok || y.Window != "7d" || y.APY != 3 {
		t.Fatalf("long lookup failed: %+v %v", y, ok)
	}
	if _, ok := (RankedEntry{Yields: []YieldResult{{Window: Window24h}}}).Long(); ok {
		t.Fatalf("unexpected long result")
	}
}
