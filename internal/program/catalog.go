// Package program holds the fixed Push/Pull/Legs rotation.
package program

// Exercise is one movement with its ordered set targets. A target is a
// free-text rep goal such as "12", "Fallo" or "15 (+1DS)".
type Exercise struct {
	Name    string   `json:"name"`
	Targets []string `json:"series"`
}

// Day is one entry of the rotation.
type Day struct {
	Name      string     `json:"dayName"`
	Exercises []Exercise `json:"exercises"`
}

// SetCount returns the number of target sets across all exercises.
func (d Day) SetCount() int {
	n := 0
	for _, ex := range d.Exercises {
		n += len(ex.Targets)
	}
	return n
}

// Day names in rotation order.
const (
	Push = "Push"
	Pull = "Pull"
	Legs = "Legs"
)

var catalog = [...]Day{
	{
		Name: Push,
		Exercises: []Exercise{
			{Name: "Press Banca", Targets: []string{"12", "10", "8"}},
			{Name: "Banca Inclinada Manc.", Targets: []string{"12", "10", "10", "8"}},
			{Name: "Mariposa Máquina", Targets: []string{"15", "15", "15", "15"}},
			{Name: "Flexiones de Brazo", Targets: []string{"Fallo", "Fallo", "Fallo", "Fallo"}},
			{Name: "Press Militar Sentado", Targets: []string{"15", "12", "10", "8"}},
			{Name: "Vuelos Laterales", Targets: []string{"15", "15", "15 (+1DS)"}},
		},
	},
	{
		Name: Pull,
		Exercises: []Exercise{
			{Name: "Jalón al Pecho Prono", Targets: []string{"15", "12", "12", "10"}},
			{Name: "Pull Over Soga", Targets: []string{"15", "15", "15"}},
			{Name: "Remo con Barra", Targets: []string{"10", "10", "8", "8"}},
			{Name: "Remo Bajo Polea", Targets: []string{"12", "12", "10", "8 (+1RP)"}},
			{Name: "Curl Bíceps Barra W", Targets: []string{"12", "12", "12", "12"}},
			{Name: "Press Francés Barra W", Targets: []string{"15", "15", "15", "15"}},
			{Name: "Bíceps Martillo Soga", Targets: []string{"15", "15", "12", "10"}},
			{Name: "Tríceps Soga", Targets: []string{"15", "15", "15", "15"}},
		},
	},
	{
		Name: Legs,
		Exercises: []Exercise{
			{Name: "Sentadilla Barra Libre", Targets: []string{"12", "10", "8"}},
			{Name: "Estocadas con Peso", Targets: []string{"12", "12", "12", "12"}},
			{Name: "Sillón de Cuádriceps", Targets: []string{"18", "15", "15", "12", "10"}},
			{Name: "Peso Muerto Rumano Manc.", Targets: []string{"10", "10", "10"}},
			{Name: "Sillón Femorales", Targets: []string{"15", "12", "12", "10"}},
			{Name: "Sillón Cuádriceps (lentas)", Targets: []string{"10", "10", "10"}},
		},
	},
}

// Len is the rotation length.
const Len = len(catalog)

// Catalog returns a deep copy of the rotation so callers cannot mutate it.
func Catalog() []Day {
	out := make([]Day, Len)
	for i := range catalog {
		out[i] = clone(catalog[i])
	}
	return out
}

// DayFor returns the day selected by a rotation cursor: index (cursor-1) mod 3.
// Total over every int; values below 1 wrap the same way.
func DayFor(cursor int) Day {
	return clone(catalog[Index(cursor)])
}

// Index returns the catalog index for a cursor value.
func Index(cursor int) int {
	i := (cursor - 1) % Len
	if i < 0 {
		i += Len
	}
	return i
}

// Lookup finds a day by exact name.
func Lookup(name string) (Day, bool) {
	for i := range catalog {
		if catalog[i].Name == name {
			return clone(catalog[i]), true
		}
	}
	return Day{}, false
}

// DayNames returns the rotation's day names in order.
func DayNames() []string {
	names := make([]string, Len)
	for i := range catalog {
		names[i] = catalog[i].Name
	}
	return names
}

func clone(d Day) Day {
	out := Day{Name: d.Name, Exercises: make([]Exercise, len(d.Exercises))}
	for i, ex := range d.Exercises {
		out.Exercises[i] = Exercise{Name: ex.Name, Targets: append([]string(nil), ex.Targets...)}
	}
	return out
}
