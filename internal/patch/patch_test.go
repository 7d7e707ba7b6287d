package patch

import "testing"

func TestField_ZeroValue_IsAbsent(t *testing.T) {
	var f Field[string]

	if f.Present() {
		t.Fatalf("zero value should be absent")
	}
	if f.Cleared() {
		t.Fatalf("zero value should not be cleared")
	}

	dst := "original"
	if f.Apply(&dst) {
		t.Fatalf("absent field should not apply")
	}
	if dst != "original" {
		t.Fatalf("absent field mutated dst: %q", dst)
	}
}

func TestField_Set_Applies(t *testing.T) {
	f := Set(42)

	if !f.Present() || f.Cleared() {
		t.Fatalf("Set should be present and not cleared")
	}

	dst := 0
	if !f.Apply(&dst) {
		t.Fatalf("Apply should report change")
	}
	if dst != 42 {
		t.Fatalf("expected 42, got %d", dst)
	}
}

func TestField_Clear_DoesNotApplyValue(t *testing.T) {
	f := Clear[float64]()

	if !f.Present() || !f.Cleared() {
		t.Fatalf("Clear should be present and cleared")
	}

	dst := 3.14
	if f.Apply(&dst) {
		t.Fatalf("cleared field must not apply over a non-pointer dst")
	}
	if dst != 3.14 {
		t.Fatalf("cleared field mutated dst: %v", dst)
	}
}

func TestField_ApplyPtr_SetFillsPointer(t *testing.T) {
	f := Set("novo")

	var dst *string
	if !f.ApplyPtr(&dst) {
		t.Fatalf("ApplyPtr should report change")
	}
	if dst == nil || *dst != "novo" {
		t.Fatalf("expected pointer to novo, got %v", dst)
	}
}

func TestField_ApplyPtr_ClearNilsPointer(t *testing.T) {
	f := Clear[string]()

	v := "antigo"
	dst := &v
	if !f.ApplyPtr(&dst) {
		t.Fatalf("ApplyPtr should report change when clearing a set pointer")
	}
	if dst != nil {
		t.Fatalf("expected nil after clear, got %v", *dst)
	}
}

func TestField_ApplyPtr_ClearOnNil_NoChange(t *testing.T) {
	f := Clear[int]()

	var dst *int
	if f.ApplyPtr(&dst) {
		t.Fatalf("clearing an already-nil pointer should not report change")
	}
}

func TestField_ApplyPtr_Absent_NoChange(t *testing.T) {
	var f Field[int]

	v := 7
	dst := &v
	if f.ApplyPtr(&dst) {
		t.Fatalf("absent field should not apply")
	}
	if dst == nil || *dst != 7 {
		t.Fatalf("absent field mutated dst")
	}
}
