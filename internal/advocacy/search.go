package advocacy

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/OpenAdvocacy/OA-Backend/internal/db"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName lowercases and strips diacritics so "Ramírez-Rosa" matches
// "ramirez" and vice versa. Officeholder names from city portals arrive with
// inconsistent accenting.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// SearchEntities matches entities by name or title, accent- and
// case-insensitively. Scoped to a jurisdiction when jurisdiction_id is given.
func SearchEntities(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	q := db.DB.Model(&Entity{})
	if jurID := r.URL.Query().Get("jurisdiction_id"); jurID != "" {
		jid, err := uuid.Parse(jurID)
		if err != nil {
			http.Error(w, "Invalid jurisdiction_id", http.StatusBadRequest)
			return
		}
		q = q.Where("jurisdiction_id = ?", jid)
	}

	var entities []Entity
	if err := q.Order("name").Find(&entities).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	needle := foldName(query)
	matches := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if strings.Contains(foldName(e.Name), needle) || strings.Contains(foldName(e.Title), needle) {
			matches = append(matches, e)
		}
	}

	if err := attachDistrictNames(matches); err != nil {
		http.Error(w, "Failed to enrich entities: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, matches)
}
