// Package listing manages the registrant listing: one fetch on mount, name search,
// pagination and the edit modal, all mirrored from the backend.
package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/validation"
)

// User-visible outcomes of panel operations.
const (
	MsgDeleted      = "User deleted successfully!"
	MsgDeleteFailed = "Error deleting user. Please try again."
	MsgUpdated      = "User updated successfully!"
	MsgUpdateFailed = "Error updating user. Please try again."
	MsgFetchFailed  = "Error fetching users. Please try again."
)

var (
	// ErrNotEditing is returned by Update when the modal is closed.
	ErrNotEditing = errors.New("no registrant is being edited")
	// ErrInvalidDraft is returned by Update when the draft fails validation.
	ErrInvalidDraft = errors.New("edit draft has validation errors")
)

// Notifier surfaces a message to the user owning the panel.
type Notifier interface {
	Notify(ctx context.Context, kind, message string)
}

// Modal is the state of the edit dialog.
type Modal struct {
	Open      bool
	EditingID string
	Draft     validation.Values
	Errors    validation.Errors
}

// Panel is one browser's listing state. It is safe for concurrent use; remote calls
// run outside the lock and their local effects are last-write-wins.
type Panel struct {
	api      backend.Provider
	notifier Notifier

	mu          sync.Mutex
	mounted     bool
	registrants []models.Registrant
	search      string
	page        int
	modal       Modal
}

// NewPanel creates an unmounted panel.
func NewPanel(api backend.Provider, notifier Notifier) *Panel {
	return &Panel{api: api, notifier: notifier, page: 1}
}

// Mounted reports whether Mount has completed.
func (p *Panel) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Mount fetches the full collection and resets search, page and modal.
// A failed fetch leaves the collection empty; the error is only notified.
func (p *Panel) Mount(ctx context.Context) error {
	registrants, err := p.api.List(ctx)

	p.mu.Lock()
	p.mounted = true
	p.search = ""
	p.page = 1
	p.modal = Modal{}
	if err != nil {
		p.registrants = nil
		p.mu.Unlock()
		log.Error().Err(err).Msg("Failed to fetch registrants")
		p.notifier.Notify(ctx, models.KindError, MsgFetchFailed)
		return err
	}
	for _, r := range registrants {
		if !r.Consistent() {
			log.Warn().Str("registrant_id", r.ID).Msg("Registrant updatedAt precedes createdAt")
		}
		if r.DateOfBirth.Invalid() {
			log.Warn().Str("registrant_id", r.ID).Str("date_of_birth", r.DateOfBirth.Raw()).Msg("Registrant has an invalid date of birth")
		}
	}
	p.registrants = registrants
	p.mu.Unlock()
	return nil
}

// SetSearch changes the search term. The current page is kept as is.
func (p *Panel) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
}

// GoTo moves to page, clamped into [1, totalPages].
func (p *Panel) GoTo(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = ClampPage(page, p.totalPagesLocked())
}

// First moves to page 1.
func (p *Panel) First() { p.GoTo(1) }

// Previous moves one page back.
func (p *Panel) Previous() {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := p.totalPagesLocked()
	p.page = ClampPage(ClampPage(p.page, total)-1, total)
}

// Next moves one page forward.
func (p *Panel) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := p.totalPagesLocked()
	p.page = ClampPage(ClampPage(p.page, total)+1, total)
}

// Delete removes the registrant on the backend, then locally. On failure nothing changes.
func (p *Panel) Delete(ctx context.Context, id string) error {
	if err := p.api.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("registrant_id", id).Msg("Failed to delete registrant")
		p.notifier.Notify(ctx, models.KindError, MsgDeleteFailed)
		return err
	}

	p.mu.Lock()
	for i, r := range p.registrants {
		if r.ID == id {
			p.registrants = append(p.registrants[:i:i], p.registrants[i+1:]...)
			break
		}
	}
	if p.modal.EditingID == id {
		p.modal = Modal{}
	}
	p.mu.Unlock()

	p.notifier.Notify(ctx, models.KindSuccess, MsgDeleted)
	return nil
}

// Edit opens the modal pre-filled with the registrant's editable fields.
// It reports false when no registrant has that id.
func (p *Panel) Edit(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.registrants {
		if r.ID == id {
			p.modal = Modal{
				Open:      true,
				EditingID: id,
				Draft: validation.Values{
					validation.FieldName:        r.Name,
					validation.FieldDateOfBirth: r.DateOfBirth.String(),
					validation.FieldEmail:       r.Email,
				},
			}
			return true
		}
	}
	return false
}

// SetDraft replaces the modal's draft values and re-validates them.
func (p *Panel) SetDraft(values validation.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.modal.Open {
		return
	}
	draft := validation.Values{}
	for _, f := range validation.Edit.FieldNames() {
		draft[f] = values[f]
	}
	p.modal.Draft = draft
	p.modal.Errors = validation.Edit.Validate(draft)
}

// Update sends the draft to the backend. On success the patch is merged locally and
// the modal closes; on failure the modal stays open.
func (p *Panel) Update(ctx context.Context) error {
	p.mu.Lock()
	if !p.modal.Open {
		p.mu.Unlock()
		return ErrNotEditing
	}
	id := p.modal.EditingID
	draft := p.modal.Draft
	if errs := validation.Edit.Validate(draft); len(errs) > 0 {
		p.modal.Errors = errs
		p.mu.Unlock()
		return ErrInvalidDraft
	}
	p.mu.Unlock()

	dob, err := models.ParseDate(draft[validation.FieldDateOfBirth])
	if err != nil {
		return ErrInvalidDraft
	}
	patch := models.RegistrantPatch{
		Name:        draft[validation.FieldName],
		DateOfBirth: dob,
		Email:       draft[validation.FieldEmail],
	}

	if err := p.api.Update(ctx, id, patch); err != nil {
		log.Error().Err(err).Str("registrant_id", id).Msg("Failed to update registrant")
		p.notifier.Notify(ctx, models.KindError, MsgUpdateFailed)
		return err
	}

	p.mu.Lock()
	for i, r := range p.registrants {
		if r.ID == id {
			p.registrants[i] = patch.Apply(r)
			break
		}
	}
	if p.modal.EditingID == id {
		p.modal = Modal{}
	}
	p.mu.Unlock()

	p.notifier.Notify(ctx, models.KindSuccess, MsgUpdated)
	return nil
}

// CancelEdit closes the modal and drops the draft.
func (p *Panel) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.modal = Modal{}
}

// Snapshot is an immutable copy of the panel for rendering.
type Snapshot struct {
	Search string
	Total  int // size of the full collection
	PageInfo
	Modal Modal
}

// View computes the filtered page and copies the modal.
func (p *Panel) View() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	filtered := Filter(p.registrants, p.search)
	modal := p.modal
	modal.Draft = copyValues(p.modal.Draft)
	modal.Errors = validation.Errors(copyValues(validation.Values(p.modal.Errors)))
	return Snapshot{
		Search:   p.search,
		Total:    len(p.registrants),
		PageInfo: Window(filtered, p.page, PageSize),
		Modal:    modal,
	}
}

// Registrants returns a copy of the full collection.
func (p *Panel) Registrants() []models.Registrant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Registrant(nil), p.registrants...)
}

// Filtered returns the current filtered view.
func (p *Panel) Filtered() []models.Registrant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Filter(p.registrants, p.search)
}

// Page returns the current page, clamped into [1, totalPages].
func (p *Panel) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ClampPage(p.page, p.totalPagesLocked())
}

func (p *Panel) totalPagesLocked() int {
	return TotalPages(len(Filter(p.registrants, p.search)), PageSize)
}

func copyValues(v validation.Values) validation.Values {
	if v == nil {
		return nil
	}
	out := make(validation.Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
