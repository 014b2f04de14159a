package occurrence

import (
	"fmt"

	"github.com/soltixdb/pindex/internal/models"
)

// Fill walks every calendar month of the inclusive range [start, end] and sets
// absent cells to zero. Existing cells are never modified, so repeated calls
// are idempotent.
func Fill(s *Series, start, end models.YearMonth) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("gap fill start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("gap fill end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: gap fill range %s..%s is inverted", models.ErrRange, start, end)
	}

	for ym := start; !end.Before(ym); ym = ym.Next() {
		if _, ok := s.cells[ym]; !ok {
			s.cells[ym] = 0
		}
	}
	return nil
}
