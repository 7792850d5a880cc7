package expansion

// Selection captura las elecciones del cliente para una expansión concreta:
// el producto elegido en cada grupo XOR y el conjunto de opcionales incluidos.
// Es efímera: se recibe por llamada, nunca se persiste como entidad propia.
//
// Las claves de Mandatory se construyen con GroupKey: el mismo nombre de grupo
// ("Temperatura") puede repetirse en distintos niveles del árbol, así que la
// clave lleva siempre el producto que delimita el alcance, nunca el nombre a
// secas. Una clave ausente significa "nada elegido en ese grupo": todas las
// opciones del grupo quedan excluidas en silencio.
type Selection struct {
	Mandatory map[string]string // GroupKey -> id del producto enlazado elegido
	Optional  []string          // ids de productos de líneas opcionales incluidas
}

// GroupKey compone la clave globalmente única de un grupo XOR: el id del
// producto cuyas líneas se están filtrando (la raíz en el nivel 0, el producto
// padre en niveles anidados) más el nombre del grupo.
func GroupKey(scopeProductID, group string) string {
	return scopeProductID + "::" + group
}

// ChosenFor devuelve el id elegido para un grupo en un alcance dado, o "" si
// no hay elección.
func (s Selection) ChosenFor(scopeProductID, group string) string {
	if s.Mandatory == nil {
		return ""
	}
	return s.Mandatory[GroupKey(scopeProductID, group)]
}

// OptionalSelected indica si el producto enlazado de una línea opcional fue incluido.
func (s Selection) OptionalSelected(productID string) bool {
	if productID == "" {
		return false
	}
	for _, id := range s.Optional {
		if id == productID {
			return true
		}
	}
	return false
}
