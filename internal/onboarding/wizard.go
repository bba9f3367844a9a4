package onboarding

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/domain/models"
)

type Step int

const (
	StepBusinessInfo Step = iota
	StepEstablishmentInfo
	StepSocialLinks
	StepContactInfo
	stepCount
)

var ErrNotFinished = errors.New("onboarding is not finished")

func (s Step) Title() string {
	switch s {
	case StepBusinessInfo:
		return "Thông tin doanh nghiệp"
	case StepEstablishmentInfo:
		return "Thông tin cơ sở"
	case StepSocialLinks:
		return "Mạng xã hội"
	case StepContactInfo:
		return "Thông tin liên hệ"
	default:
		return ""
	}
}

// Wizard threads a Draft through the four employer onboarding steps.
type Wizard struct {
	step  Step
	draft Draft
	done  bool
}

func NewWizard() *Wizard {
	return &Wizard{}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) StepNumber() int {
	return int(w.step) + 1
}

func (w *Wizard) StepCount() int {
	return int(stepCount)
}

func (w *Wizard) Done() bool {
	return w.done
}

// Draft returns a copy the current page can edit and hand back to Next or Back.
func (w *Wizard) Draft() Draft {
	d := w.draft
	d.Social.Links = append([]models.SocialLink(nil), w.draft.Social.Links...)
	return d
}

// Next validates the current step's section of draft and moves forward. On
// the last step it marks the wizard done instead.
func (w *Wizard) Next(draft Draft) error {
	if w.done {
		return nil
	}

	if err := validateSection(draft.section(w.step)); err != nil {
		return err
	}

	w.draft = w.draft.withSection(w.step, draft)
	if w.step == StepContactInfo {
		w.done = true
		return nil
	}
	w.step++
	return nil
}

// Back keeps whatever the current page holds, valid or not, and returns to the
// previous step. From a finished wizard it reopens the last step. It reports
// false on the first step.
func (w *Wizard) Back(draft Draft) bool {
	if w.done {
		w.done = false
		return true
	}

	w.draft = w.draft.withSection(w.step, draft)
	if w.step == StepBusinessInfo {
		return false
	}
	w.step--
	return true
}

func (w *Wizard) Profile() (models.EmployerProfile, error) {
	if !w.done {
		return models.EmployerProfile{}, ErrNotFinished
	}
	for step := StepBusinessInfo; step < stepCount; step++ {
		if err := validateSection(w.draft.section(step)); err != nil {
			return models.EmployerProfile{}, fmt.Errorf("%s: %w", step.Title(), err)
		}
	}
	return w.draft.Profile(), nil
}

func (w *Wizard) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Step  Step  `json:"step"`
		Done  bool  `json:"done"`
		Draft Draft `json:"draft"`
	}{
		Step:  w.step,
		Done:  w.done,
		Draft: w.draft,
	})
}

func (w *Wizard) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Step  Step  `json:"step"`
		Done  bool  `json:"done"`
		Draft Draft `json:"draft"`
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.Step < StepBusinessInfo || aux.Step >= stepCount {
		return fmt.Errorf("invalid onboarding step: %d", aux.Step)
	}

	w.step = aux.Step
	w.done = aux.Done
	w.draft = aux.Draft
	return nil
}
