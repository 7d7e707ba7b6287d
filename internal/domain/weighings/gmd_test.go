package weighings

import (
	"testing"
	"time"
)

func rec(peso float64, data time.Time) WeightRecord {
	return WeightRecord{Peso: peso, DataPesagem: data}
}

func TestComputeGMD_BasicGain(t *testing.T) {
	d0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 230kg -> 278kg em 40 dias = 1.200 kg/dia
	gmd, ok := ComputeGMD([]WeightRecord{
		rec(230, d0),
		rec(278, d0.AddDate(0, 0, 40)),
	})
	if !ok {
		t.Fatalf("expected ok")
	}
	if gmd != 1.200 {
		t.Fatalf("expected 1.200, got %v", gmd)
	}
}

func TestComputeGMD_UsesFirstAndLast_NotIntermediates(t *testing.T) {
	d0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Pesagem intermediária fora da reta não muda o resultado.
	gmd, ok := ComputeGMD([]WeightRecord{
		rec(300, d0.AddDate(0, 0, 10)),
		rec(230, d0),
		rec(278, d0.AddDate(0, 0, 40)),
	})
	if !ok {
		t.Fatalf("expected ok")
	}
	if gmd != 1.200 {
		t.Fatalf("expected 1.200, got %v", gmd)
	}
}

func TestComputeGMD_NegativeLoss(t *testing.T) {
	d0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	gmd, ok := ComputeGMD([]WeightRecord{
		rec(400, d0),
		rec(390, d0.AddDate(0, 0, 20)),
	})
	if !ok {
		t.Fatalf("expected ok")
	}
	if gmd != -0.5 {
		t.Fatalf("expected -0.5, got %v", gmd)
	}
}

func TestComputeGMD_RoundsThreeDecimals(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 10kg em 3 dias = 3.3333... -> 3.333
	gmd, ok := ComputeGMD([]WeightRecord{
		rec(100, d0),
		rec(110, d0.AddDate(0, 0, 3)),
	})
	if !ok {
		t.Fatalf("expected ok")
	}
	if gmd != 3.333 {
		t.Fatalf("expected 3.333, got %v", gmd)
	}
}

func TestComputeGMD_InsufficientHistory(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := ComputeGMD(nil); ok {
		t.Fatalf("empty history should have no data")
	}
	if _, ok := ComputeGMD([]WeightRecord{rec(230, d0)}); ok {
		t.Fatalf("single record should have no data")
	}
}

func TestComputeGMD_SameDay_NoData(t *testing.T) {
	// Duas pesagens no mesmo dia (horas diferentes) não formam intervalo.
	d := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	if _, ok := ComputeGMD([]WeightRecord{
		rec(230, d),
		rec(234, d.Add(6 * time.Hour)),
	}); ok {
		t.Fatalf("same-day records should have no data")
	}
}

func TestComputeGMD_IgnoresTimeOfDay(t *testing.T) {
	// Compara só a data: 23h de um dia até 1h do seguinte conta 1 dia.
	first := time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC)
	last := time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC)

	gmd, ok := ComputeGMD([]WeightRecord{
		rec(230, first),
		rec(231, last),
	})
	if !ok {
		t.Fatalf("expected ok")
	}
	if gmd != 1.0 {
		t.Fatalf("expected 1.0, got %v", gmd)
	}
}
