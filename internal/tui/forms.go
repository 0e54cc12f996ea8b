package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/learnlit/internal/models"
	"github.com/julianstephens/learnlit/internal/streak"
	"github.com/julianstephens/learnlit/internal/validation"
)

// NewStartForm asks for the subject and period of a new goal.
func NewStartForm(fm *StartFormModel) *huh.Form {
	options := make([]huh.Option[models.Period], 0, len(models.Periods))
	for _, p := range models.Periods {
		label := fmt.Sprintf("%s: %d days, %d freezes", p, streak.CompletionThreshold(p), streak.FreezeQuota(p))
		options = append(options, huh.NewOption(label, p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you learning?").
				Value(&fm.Subject).
				Validate(func(s string) error {
					_, err := validation.ValidateSubject(s)
					return err
				}),
			huh.NewSelect[models.Period]().
				Title("Period").
				Options(options...).
				Value(&fm.Period),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewConfirmationForm(cm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(cm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&cm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
