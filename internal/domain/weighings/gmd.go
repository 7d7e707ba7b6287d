package weighings

import (
	"math"
	"time"
)

// ComputeGMD calcula o Ganho Médio Diário entre a primeira e a última
// pesagem do histórico, arredondado a 3 casas decimais.
//
// Devolve ok=false (sem dados, não é erro nem zero) quando o histórico
// tem menos de duas datas distintas. O peso pode cair legitimamente,
// então o GMD pode ser negativo.
func ComputeGMD(history []WeightRecord) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}

	first := history[0]
	last := history[0]
	for _, rec := range history[1:] {
		if dateOf(rec.DataPesagem).Before(dateOf(first.DataPesagem)) {
			first = rec
		}
		if dateOf(rec.DataPesagem).After(dateOf(last.DataPesagem)) {
			last = rec
		}
	}

	dias := daysBetween(first.DataPesagem, last.DataPesagem)
	if dias <= 0 {
		return 0, false
	}

	gmd := (last.Peso - first.Peso) / float64(dias)
	return math.Round(gmd*1000) / 1000, true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}
