package derive

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sadopc/spectalocks/internal/entity"
)

// MinimumLead is how far in the future the earliest selectable end date is.
const MinimumLead = time.Minute

type AdderItem struct {
	Title                 string
	DoneTitle             string
	NameTitle             string
	DateTitle             string
	CategoryTitle         string
	MinimumSelectableDate time.Time
	Categories            []CategoryLabel
}

// Adder builds the lock creation form. It must be rebuilt each time the form
// opens so the minimum date follows the clock.
func Adder(now time.Time, loc Localizer) AdderItem {
	item := AdderItem{
		Title:                 loc.Text("addLock.title"),
		DoneTitle:             loc.Text("addLock.add"),
		NameTitle:             loc.Text("addLock.form.name"),
		DateTitle:             loc.Text("addLock.form.date"),
		CategoryTitle:         loc.Text("addLock.form.category"),
		MinimumSelectableDate: now.Add(MinimumLead),
	}
	for _, c := range entity.Categories() {
		item.Categories = append(item.Categories, categoryLabel(c, loc))
	}
	return item
}

// LockDraft is the raw form input for a new lock. Missing fields are nil.
type LockDraft struct {
	Name     string           `validate:"required"`
	EndDate  *time.Time       `validate:"required"`
	Category *entity.Category `validate:"required"`
}

var (
	ErrInvalidDraft = errors.New("invalid lock")
	ErrNotFuture    = errors.New("lock must end in the future")
)

var validate = validator.New()

// ValidateDraft checks a draft against now and returns the lock it describes,
// starting at now. The returned lock has no ID yet.
func ValidateDraft(d LockDraft, now time.Time) (entity.Lock, error) {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return entity.Lock{}, fmt.Errorf("%w: %s is required", ErrInvalidDraft, verrs[0].Field())
		}
		return entity.Lock{}, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if !d.Category.Valid() {
		return entity.Lock{}, fmt.Errorf("%w: unknown category %q", ErrInvalidDraft, string(*d.Category))
	}
	if d.EndDate.Sub(now) <= 0 {
		return entity.Lock{}, fmt.Errorf("%w: %w", ErrInvalidDraft, ErrNotFuture)
	}
	return entity.Lock{
		Name:      d.Name,
		StartDate: now,
		EndDate:   *d.EndDate,
		Category:  *d.Category,
	}, nil
}
