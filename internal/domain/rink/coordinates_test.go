package rink

import "testing"

func TestToPercent_Bounds(t *testing.T) {
	if got := ToPercent(0); got != 0 {
		t.Fatalf("ToPercent(0)=%v want 0", got)
	}
	if got := ToPercent(1000); got != 100 {
		t.Fatalf("ToPercent(1000)=%v want 100", got)
	}

	for c := 0; c <= Scale; c++ {
		got := ToPercent(c)
		if got < 0 || got > 100 {
			t.Fatalf("ToPercent(%d)=%v outside [0,100]", c, got)
		}
	}
}

func TestConvert(t *testing.T) {
	got := Convert(450, 300)
	if got.Top != 45 || got.Left != 30 {
		t.Fatalf("unexpected point: %+v", got)
	}
}

func TestConvertView_Mirror(t *testing.T) {
	got := ConvertView(450, 300, true)
	if got.Top != 45 || got.Left != 70 {
		t.Fatalf("unexpected mirrored point: %+v", got)
	}

	plain := ConvertView(450, 300, false)
	if plain != Convert(450, 300) {
		t.Fatalf("flip=false must match Convert, got %+v", plain)
	}
}

func TestIsUnset(t *testing.T) {
	if !IsUnset(0, 0) {
		t.Fatalf("(0,0) is the unset sentinel")
	}
	if IsUnset(0, 10) || IsUnset(10, 0) {
		t.Fatalf("only (0,0) is unset")
	}
}
