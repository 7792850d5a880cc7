package expansion

import "github.com/jhoicas/cafe-pos-api/internal/domain/entity"

// Include decide si una línea de receta participa en una expansión, dada la
// selección y el producto cuyas líneas se están filtrando (el alcance de los
// grupos XOR). Es el único predicado de inclusión del sistema: el aplanado de
// componentes, la agregación de precio, la agregación de costo y el registro
// de consumo lo invocan todos, de modo que los cuatro recorridos no pueden
// divergir sobre qué líneas cuentan.
//
// Reglas, en orden:
//  1. Línea opcional: entra solo si su producto enlazado está en Optional.
//  2. Línea con grupo XOR: entra solo si su producto enlazado es el elegido
//     para ese grupo en este alcance. Grupo sin elección = todas excluidas.
//  3. Resto: entra siempre.
func Include(line *entity.RecipeLine, sel Selection, scopeProductID string) bool {
	if line.IsOptional {
		return sel.OptionalSelected(line.LinkedProductID)
	}
	if line.SelectionGroup != "" {
		chosen := sel.ChosenFor(scopeProductID, line.SelectionGroup)
		return chosen != "" && chosen == line.LinkedProductID
	}
	return true
}
