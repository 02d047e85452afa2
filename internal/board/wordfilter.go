package board

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kalpasnet/kotoba/internal/models"
)

// WordFilter screens submissions against the banned-word table. The list
// is read on every screen so out-of-band additions apply immediately.
type WordFilter struct {
	db *gorm.DB
}

func NewWordFilter(db *gorm.DB) *WordFilter {
	return &WordFilter{db: db}
}

// Screen returns a validation error if any banned word appears in any of
// the given values.
func (f *WordFilter) Screen(values ...string) error {
	var words []models.NGWord
	if err := f.db.Find(&words).Error; err != nil {
		return err
	}
	for _, w := range words {
		for _, v := range values {
			if strings.Contains(v, w.Word) {
				return fmt.Errorf("%w: contains a banned word", ErrValidation)
			}
		}
	}
	return nil
}
