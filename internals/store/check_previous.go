// file: internals/store/check_previous.go
package store

import "fmt"

// CheckPrevious memisahkan payload edit yang membawa sub-objek
// "previous": {...} menjadi (edits tanpa previous, kondisi CAS).
// Admin client mengirim nilai lama yang ia baca; setiap field di previous
// menjadi precondition equality supaya edit batal (Conflict) kalau ada
// yang berubah sejak dibaca.
func CheckPrevious(edits map[string]any) (map[string]any, *Cond, error) {
	sets := make(map[string]any, len(edits))
	cond := Where()

	for field, value := range edits {
		if field != "previous" {
			sets[field] = value
			continue
		}
		previous, ok := value.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: previous harus berupa objek", ErrValidation)
		}
		for prevField, prevValue := range previous {
			cond.Eq(prevField, prevValue)
		}
	}
	if cond.empty() {
		cond = nil
	}
	return sets, cond, nil
}
