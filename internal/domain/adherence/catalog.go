package adherence

// CatalogEntry describes one medication in the fixed reference catalog the
// generator draws from: display name, dosage, and the daily administration
// times a fully adherent patient would follow.
type CatalogEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Dosage string   `json:"dosage"`
	Times  []string `json:"times"` // "HH:MM", chronological
}

// Catalog is the reference medication list. It is read-only; generators copy
// entries, never mutate them.
var Catalog = []CatalogEntry{
	{ID: "med-metformin", Name: "Metformin", Dosage: "500mg", Times: []string{"08:00", "20:00"}},
	{ID: "med-lisinopril", Name: "Lisinopril", Dosage: "10mg", Times: []string{"08:00"}},
	{ID: "med-atorvastatin", Name: "Atorvastatin", Dosage: "20mg", Times: []string{"21:00"}},
	{ID: "med-omeprazole", Name: "Omeprazole", Dosage: "20mg", Times: []string{"07:30"}},
	{ID: "med-levothyroxine", Name: "Levothyroxine", Dosage: "50mcg", Times: []string{"06:30"}},
	{ID: "med-amlodipine", Name: "Amlodipine", Dosage: "5mg", Times: []string{"09:00"}},
	{ID: "med-metoprolol", Name: "Metoprolol", Dosage: "25mg", Times: []string{"08:00", "20:00"}},
	{ID: "med-sertraline", Name: "Sertraline", Dosage: "50mg", Times: []string{"09:00"}},
	{ID: "med-albuterol", Name: "Albuterol", Dosage: "90mcg", Times: []string{"08:00", "14:00", "20:00"}},
	{ID: "med-losartan", Name: "Losartan", Dosage: "50mg", Times: []string{"08:30"}},
	{ID: "med-gabapentin", Name: "Gabapentin", Dosage: "300mg", Times: []string{"08:00", "14:00", "21:00"}},
	{ID: "med-furosemide", Name: "Furosemide", Dosage: "40mg", Times: []string{"07:00"}},
}

// SkipReasons is the fixed list a missed dose's reason is drawn from.
var SkipReasons = []string{
	"forgot",
	"side_effects",
	"felt_better",
	"ran_out",
	"away_from_home",
}