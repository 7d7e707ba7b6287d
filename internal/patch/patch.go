// Package patch define o change-set esparso usado pelos updates parciais.
//
// Cada campo de um patch distingue três estados: ausente (não tocar),
// valor novo, e limpeza explícita. Isso substitui o padrão "campo não nulo
// vira UPDATE" dos PUTs antigos, que não sabia diferenciar "não enviado"
// de "limpar".
package patch

// Field é um campo tri-estado de um change-set.
type Field[T any] struct {
	present bool
	clear   bool
	value   T
}

// Set cria um campo com valor novo.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Clear cria um campo marcado para limpeza explícita.
func Clear[T any]() Field[T] {
	return Field[T]{present: true, clear: true}
}

// Present informa se o campo foi enviado (valor ou limpeza).
func (f Field[T]) Present() bool { return f.present }

// Cleared informa se o campo pede limpeza explícita.
func (f Field[T]) Cleared() bool { return f.present && f.clear }

// Value devolve o valor novo; só tem significado quando Present e não Cleared.
func (f Field[T]) Value() T { return f.value }

// Apply escreve o valor novo em dst quando o campo foi enviado com valor.
// Devolve true se dst foi alterado.
func (f Field[T]) Apply(dst *T) bool {
	if !f.present || f.clear {
		return false
	}
	*dst = f.value
	return true
}

// ApplyPtr aplica o campo sobre um destino opcional: valor novo vira
// ponteiro preenchido, limpeza explícita vira nil.
// Devolve true se dst foi alterado.
func (f Field[T]) ApplyPtr(dst **T) bool {
	if !f.present {
		return false
	}
	if f.clear {
		if *dst == nil {
			return false
		}
		*dst = nil
		return true
	}
	v := f.value
	*dst = &v
	return true
}
