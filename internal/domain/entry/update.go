package entry

import (
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

// Update is a field-level partial update of an entry. Zero-valued
// fields are left unchanged by the backend. Title and Content are
// re-derived by the caller whenever Form is set; they never diverge
// from the form data.
type Update struct {
	Form     FormData
	Title    string
	Content  string
	Metadata *Metadata

	ModifiedBy domain.Actor
	ModifiedAt time.Time
}
