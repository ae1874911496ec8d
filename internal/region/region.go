// Package region holds the shipping reference table: Peru's 24 departments and their provinces.
package region

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Department struct {
	Name      string   `json:"name"`
	Provinces []string `json:"provinces"`
}

var departments = []Department{
	{"Amazonas", []string{"Chachapoyas", "Bagua", "Bongará", "Condorcanqui", "Luya", "Rodríguez de Mendoza", "Utcubamba"}},
	{"Áncash", []string{"Huaraz", "Aija", "Antonio Raimondi", "Asunción", "Bolognesi", "Carhuaz", "Carlos Fermín Fitzcarrald", "Casma", "Corongo", "Huari", "Huarmey", "Huaylas", "Mariscal Luzuriaga", "Ocros", "Pallasca", "Pomabamba", "Recuay", "Santa", "Sihuas", "Yungay"}},
	{"Apurímac", []string{"Abancay", "Andahuaylas", "Antabamba", "Aymaraes", "Cotabambas", "Chincheros", "Grau"}},
	{"Arequipa", []string{"Arequipa", "Camaná", "Caravelí", "Castilla", "Caylloma", "Condesuyos", "Islay", "La Unión"}},
	{"Ayacucho", []string{"Huamanga", "Cangallo", "Huanca Sancos", "Huanta", "La Mar", "Lucanas", "Parinacochas", "Páucar del Sara Sara", "Sucre", "Víctor Fajardo", "Vilcas Huamán"}},
	{"Cajamarca", []string{"Cajamarca", "Cajabamba", "Celendín", "Chota", "Contumazá", "Cutervo", "Hualgayoc", "Jaén", "San Ignacio", "San Marcos", "San Miguel", "San Pablo", "Santa Cruz"}},
	{"Cusco", []string{"Cusco", "Acomayo", "Anta", "Calca", "Canas", "Canchis", "Chumbivilcas", "Espinar", "La Convención", "Paruro", "Paucartambo", "Quispicanchi", "Urubamba"}},
	{"Huancavelica", []string{"Huancavelica", "Acobamba", "Angaraes", "Castrovirreyna", "Churcampa", "Huaytará", "Tayacaja"}},
	{"Huánuco", []string{"Huánuco", "Ambo", "Dos de Mayo", "Huacaybamba", "Huamalíes", "Leoncio Prado", "Marañón", "Pachitea", "Puerto Inca", "Lauricocha", "Yarowilca"}},
	{"Ica", []string{"Ica", "Chincha", "Nasca", "Palpa", "Pisco"}},
	{"Junín", []string{"Huancayo", "Concepción", "Chanchamayo", "Jauja", "Junín", "Satipo", "Tarma", "Yauli", "Chupaca"}},
	{"La Libertad", []string{"Trujillo", "Ascope", "Bolívar", "Chepén", "Julcán", "Otuzco", "Pacasmayo", "Pataz", "Sánchez Carrión", "Santiago de Chuco", "Gran Chimú", "Virú"}},
	{"Lambayeque", []string{"Chiclayo", "Ferreñafe", "Lambayeque"}},
	{"Lima", []string{"Lima", "Barranca", "Cajatambo", "Canta", "Cañete", "Huaral", "Huarochirí", "Huaura", "Oyón", "Yauyos"}},
	{"Loreto", []string{"Maynas", "Alto Amazonas", "Loreto", "Mariscal Ramón Castilla", "Requena", "Ucayali", "Datem del Marañón", "Putumayo"}},
	{"Madre de Dios", []string{"Tambopata", "Manu", "Tahuamanu"}},
	{"Moquegua", []string{"Mariscal Nieto", "General Sánchez Cerro", "Ilo"}},
	{"Pasco", []string{"Pasco", "Daniel Alcides Carrión", "Oxapampa"}},
	{"Piura", []string{"Piura", "Ayabaca", "Huancabamba", "Morropón", "Paita", "Sullana", "Talara", "Sechura"}},
	{"Puno", []string{"Puno", "Azángaro", "Carabaya", "Chucuito", "El Collao", "Huancané", "Lampa", "Melgar", "Moho", "San Antonio de Putina", "San Román", "Sandia", "Yunguyo"}},
	{"San Martín", []string{"Moyobamba", "Bellavista", "El Dorado", "Huallaga", "Lamas", "Mariscal Cáceres", "Picota", "Rioja", "San Martín", "Tocache"}},
	{"Tacna", []string{"Tacna", "Candarave", "Jorge Basadre", "Tarata"}},
	{"Tumbes", []string{"Tumbes", "Contralmirante Villar", "Zarumilla"}},
	{"Ucayali", []string{"Coronel Portillo", "Atalaya", "Padre Abad", "Purús"}},
}

var byKey = func() map[string]int {
	m := make(map[string]int, len(departments))
	for i, d := range departments {
		m[fold(d.Name)] = i
	}
	return m
}()

// fold lowercases and strips diacritics so "junin" and "Junín" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// All returns a copy of the table.
func All() []Department {
	out := make([]Department, len(departments))
	for i, d := range departments {
		out[i] = Department{Name: d.Name, Provinces: append([]string(nil), d.Provinces...)}
	}
	return out
}

// Departments returns the department names in table order.
func Departments() []string {
	names := make([]string, len(departments))
	for i, d := range departments {
		names[i] = d.Name
	}
	return names
}

// CanonicalDepartment maps user input to the official department name.
func CanonicalDepartment(name string) (string, bool) {
	i, ok := byKey[fold(name)]
	if !ok {
		return "", false
	}
	return departments[i].Name, true
}

// Provinces lists the provinces of a department, nil if the department is unknown.
func Provinces(department string) []string {
	i, ok := byKey[fold(department)]
	if !ok {
		return nil
	}
	return append([]string(nil), departments[i].Provinces...)
}

// CanonicalProvince maps a province inside department to its official name.
func CanonicalProvince(department, province string) (string, bool) {
	i, ok := byKey[fold(department)]
	if !ok {
		return "", false
	}
	key := fold(province)
	for _, p := range departments[i].Provinces {
		if fold(p) == key {
			return p, true
		}
	}
	return "", false
}
